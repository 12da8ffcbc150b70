package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jeanpaul/contactbook/internal/config"
	"github.com/jeanpaul/contactbook/internal/contact"
	"github.com/jeanpaul/contactbook/internal/export"
	"github.com/jeanpaul/contactbook/internal/importer"
	"github.com/jeanpaul/contactbook/internal/render"
	"github.com/jeanpaul/contactbook/internal/server"
	"github.com/jeanpaul/contactbook/internal/tui"
)

type contactFlags struct {
	name, phone, email, address *string
}

func newContactFlags(fs *flag.FlagSet) contactFlags {
	return contactFlags{
		name:    fs.String("name", "", "Contact name"),
		phone:   fs.String("phone", "", "10-digit phone number"),
		email:   fs.String("email", "", "Email address"),
		address: fs.String("address", "", "Postal address"),
	}
}

func (a *app) cmdAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	f := newContactFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := a.svc.Add(*f.name, *f.phone, *f.email, *f.address)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, tui.SuccessStyle.Render("Contact added successfully!"))
	fmt.Fprintln(a.out, "  "+c.String())
	return nil
}

func (a *app) cmdList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	plain := fs.Bool("plain", false, "Print the Markdown table without styling")
	if err := fs.Parse(args); err != nil {
		return err
	}

	contacts, err := a.svc.List()
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		fmt.Fprintln(a.out, "No contacts available.")
		return nil
	}
	return a.printTable(contacts, true, *plain)
}

func (a *app) cmdSearch(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: contactbook search <name|email|phone> <query>")
	}
	found, err := a.svc.Search(args[0], args[1])
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Fprintln(a.out, "No contacts found.")
		return nil
	}
	return a.printTable(found, false, false)
}

func (a *app) cmdEdit(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: contactbook edit <n> [-name -phone -email -address]")
	}
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	f := newContactFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	before, err := a.svc.List()
	if err != nil {
		return err
	}
	after, err := a.svc.Edit(index, *f.name, *f.phone, *f.email, *f.address)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, tui.SuccessStyle.Render("Contact updated successfully!"))
	if d := render.Diff(before[index-1], after); d != "" {
		fmt.Fprint(a.out, d)
	}
	return nil
}

func (a *app) cmdDelete(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: contactbook delete <n>")
	}
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	c, err := a.svc.Delete(index)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, tui.SuccessStyle.Render("Contact deleted successfully!"))
	fmt.Fprintln(a.out, "  "+c.String())
	return nil
}

func (a *app) cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	format := fs.String("format", "csv", "Output format (csv or xlsx)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path, err := a.exporter.Export(export.Format(*format))
	if errors.Is(err, contact.ErrNoData) {
		fmt.Fprintln(a.out, "No contacts to export.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, tui.SuccessStyle.Render(fmt.Sprintf("Contacts exported to %s successfully!", path)))
	return nil
}

func (a *app) cmdImport(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: contactbook import <pattern>...")
	}
	paths, err := importer.Expand(args)
	if err != nil {
		return err
	}
	records, err := importer.ReadAll(paths)
	if err != nil {
		return err
	}

	res, err := a.svc.Import(records)
	if err != nil {
		return err
	}
	for _, r := range res.Rejected {
		fmt.Fprintf(a.errOut, "%s %s: %s\n", tui.ErrorStyle.Render("skipped"), r.Contact.Name, r.Err)
	}
	fmt.Fprintln(a.out, tui.SuccessStyle.Render(fmt.Sprintf("Imported %d contacts from %d files (%d skipped).",
		len(res.Added), len(paths), len(res.Rejected))))
	return nil
}

func (a *app) cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	addr := fs.String("addr", a.cfg.Server.Addr, "Listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           server.New(a.svc, a.exporter, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintf(a.out, "  Serving %s on http://%s\n", a.store.Path(), *addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.logger.Info("server stopped")
	return nil
}

func cmdConfig(args []string, out io.Writer) error {
	if len(args) == 0 || args[0] != "init" {
		return errors.New("usage: contactbook config init [-force] [path]")
	}
	fs := flag.NewFlagSet("config init", flag.ContinueOnError)
	force := fs.Bool("force", false, "Overwrite an existing file")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	path := config.UserConfigPath()
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if err := config.WriteDefault(path, *force); err != nil {
		return err
	}
	fmt.Fprintf(out, "  Wrote %s\n", path)
	return nil
}

func (a *app) printTable(contacts []contact.Contact, numbered, plain bool) error {
	md := render.Table(contacts, numbered)
	if plain {
		fmt.Fprint(a.out, md)
		return nil
	}
	out, err := render.Markdown(md, 100)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, out)
	return nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid contact number %q", s)
	}
	return n, nil
}
