package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/linkproof/internal/client/client"
)

const timeLayout = time.RFC3339

// Submit records the file named by args[0]. An optional args[1] is the
// contact email notified about the receipt.
func (a *App) Submit(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		printlnFn("Usage: submit <file> [email]")
		return nil
	}
	email := ""
	if len(args) == 2 {
		email = args[1]
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	r, err := a.receiptService.Submit(ctx, args[0], email)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Recorded %s\n  digest:  %s\n  time:    %s\n  receipt: %s\n  proof:   %s\n",
		r.Filename, r.Digest, r.CreatedAt.Local().Format(timeLayout), r.ID, r.Link)
	return nil
}

func (a *App) Verify(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: verify <file>")
		return nil
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	ok, err := a.receiptService.Verify(ctx, args[0])
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(a.out, "%s: a proof of existence is on record\n", args[0])
	} else {
		fmt.Fprintf(a.out, "%s: no proof on record\n", args[0])
	}
	return nil
}

func (a *App) List(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	items, err := a.receiptService.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No receipts yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tFILE\tDIGEST\tLINK")
	for _, r := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.CreatedAt.Local().Format(timeLayout), r.Filename, r.Digest, r.Link)
	}
	return tw.Flush()
}

func (a *App) Lookup(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: lookup <digest>")
		return nil
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.receiptService.Lookup(ctx, args[0])
	if errors.Is(err, client.ErrNotFound) {
		fmt.Fprintln(a.out, "No proof on record for this digest")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Recorded %s\n  digest: %s\n  proof:  %s\n", p.CreatedAt.Local().Format(timeLayout), p.Digest, p.Link)
	return nil
}

func (a *App) History(ctx context.Context) error {
	items, err := a.receiptService.History(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Nothing submitted from this machine")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSOURCE\tDIGEST")
	for _, e := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.CreatedAt.Local().Format(timeLayout), e.Source, e.Digest)
	}
	return tw.Flush()
}

// Digest prints the fingerprint of a local file. It works offline.
func (a *App) Digest(args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: digest <file>")
		return nil
	}
	d, err := a.receiptService.Digest(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s  %s\n", d, args[0])
	return nil
}
