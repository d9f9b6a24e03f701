package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/jrsteele09/go-cafe-storefront/api"
	"github.com/jrsteele09/go-cafe-storefront/catalog"
	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
	"github.com/jrsteele09/go-cafe-storefront/menu"
)

var errUsage = errors.New("usage")

const usage = `usage: kopikata <command> [flags] [args]

commands:
  login -u USER -p PASS
  register -u USER -p PASS -confirm PASS
  logout
  whoami
  list KIND [-category NAME]
  show KIND ID
  create KIND -name N -description D -price P [-category C] [-ingredients a,b] [-caffeine L] [-image FILE]
  update KIND ID (same flags as create)
  delete KIND ID

KIND is coffees or foods.`

type app struct {
	client *api.Client
	out    io.Writer
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage()
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "register":
		return a.register(ctx, rest)
	case "logout":
		if err := a.client.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Logged out")
		return nil
	case "whoami":
		if !a.client.IsAuthenticated() {
			fmt.Fprintln(a.out, "Not logged in")
			return nil
		}
		fmt.Fprintln(a.out, displayName(a.client.Session().Username()))
		return nil
	case "list":
		return a.list(ctx, rest)
	case "show":
		return a.show(ctx, rest)
	case "create":
		return a.write(ctx, rest, false)
	case "update":
		return a.write(ctx, rest, true)
	case "delete":
		return a.delete(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	}
	return a.usage()
}

func (a *app) usage() error {
	fmt.Fprintln(a.out, usage)
	return errUsage
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	res, err := a.client.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", displayName(res.Username))
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := a.flags("register")
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	confirm := fs.String("confirm", "", "password again")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	msg, err := a.client.Register(ctx, *username, *password, *confirm)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Registered"
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage()
	}
	kind, err := catalog.ParseKind(args[0])
	if err != nil {
		return err
	}
	fs := a.flags("list")
	category := fs.String("category", catalog.CategoryAll, "only items in this category")
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
	switch kind {
	case catalog.KindCoffee:
		coffees, err := a.client.ListCoffees(ctx)
		if err != nil {
			return err
		}
		for _, c := range catalog.FilterByCategory(coffees, *category) {
			printRow(tw, c.Item)
		}
	case catalog.KindFood:
		foods, err := a.client.ListFoods(ctx)
		if err != nil {
			return err
		}
		for _, f := range catalog.FilterByCategory(foods, *category) {
			printRow(tw, f.Item)
		}
	}
	return tw.Flush()
}

func printRow(w io.Writer, item catalog.Item) {
	fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", item.ID, item.Name, item.CategoryName(), catalog.FormatRupiah(item.Price))
}

// show looks the item up on the server and falls back to the list copy
func (a *app) show(ctx context.Context, args []string) error {
	kind, id, err := target(args)
	if err != nil {
		return err
	}
	page := menu.NewPage(a.client, kind)
	defer page.Close()
	// A failed list only removes the fallback; the lookup still runs.
	_ = page.Load(ctx)

	sel, err := page.Select(ctx, kind, id)
	if err != nil {
		return err
	}
	if sel.Source == menu.NotFound {
		if sel.LookupErr != nil {
			return sel.LookupErr
		}
		return errors.Wrapf(api.ErrNotFound, "%s %d", kind.Singular(), id)
	}

	item := sel.Item()
	fmt.Fprintf(a.out, "%s (#%d)\n", item.Name, item.ID)
	fmt.Fprintf(a.out, "Price:       %s\n", catalog.FormatRupiah(item.Price))
	if c := item.CategoryName(); c != "" {
		fmt.Fprintf(a.out, "Category:    %s\n", c)
	}
	fmt.Fprintf(a.out, "Description: %s\n", item.Description)
	if sel.Coffee != nil {
		if len(sel.Coffee.Ingredients) > 0 {
			fmt.Fprintf(a.out, "Ingredients: %s\n", strings.Join(sel.Coffee.Ingredients, ", "))
		}
		if sel.Coffee.Caffeine != "" {
			fmt.Fprintf(a.out, "Caffeine:    %s\n", sel.Coffee.Caffeine)
		}
	}
	if sel.Source == menu.FromCache {
		fmt.Fprintln(a.out, "(shown from the list; the server lookup failed)")
	}
	return nil
}

// write handles create, and update when withID is set
func (a *app) write(ctx context.Context, args []string, withID bool) error {
	name := "create"
	if withID {
		name = "update"
	}
	need := 1
	if withID {
		need = 2
	}
	if len(args) < need {
		return a.usage()
	}
	kind, err := catalog.ParseKind(args[0])
	if err != nil {
		return err
	}
	var id int64
	if withID {
		if id, err = catalog.ParseID(args[1]); err != nil {
			return err
		}
	}

	fs := a.flags(name)
	itemName := fs.String("name", "", "name (required)")
	description := fs.String("description", "", "description (required)")
	price := fs.String("price", "", "price in Rupiah (required)")
	category := fs.String("category", "", "category")
	ingredients := fs.String("ingredients", "", "comma separated ingredients (coffees)")
	caffeine := fs.String("caffeine", "", "caffeine level (coffees)")
	imagePath := fs.String("image", "", "image file to upload")
	if err := fs.Parse(args[need:]); err != nil {
		return errUsage
	}

	amount, err := catalog.ParsePrice(*price)
	if err != nil {
		return err
	}
	fields := catalog.Fields{
		Name:        *itemName,
		Description: *description,
		Price:       amount,
		Category:    *category,
	}
	if kind == catalog.KindCoffee {
		fields.Ingredients = catalog.SplitIngredients(*ingredients)
		fields.Caffeine = *caffeine
	}

	image, closeImage, err := openImage(*imagePath)
	if err != nil {
		return err
	}
	defer closeImage()

	var saved catalog.Item
	switch {
	case kind == catalog.KindCoffee && withID:
		c, err := a.client.UpdateCoffee(ctx, id, fields, image)
		if err != nil {
			return err
		}
		saved = c.Item
	case kind == catalog.KindCoffee:
		c, err := a.client.CreateCoffee(ctx, fields, image)
		if err != nil {
			return err
		}
		saved = c.Item
	case withID:
		f, err := a.client.UpdateFood(ctx, id, fields, image)
		if err != nil {
			return err
		}
		saved = f.Item
	default:
		f, err := a.client.CreateFood(ctx, fields, image)
		if err != nil {
			return err
		}
		saved = f.Item
	}

	verb := "Created"
	if withID {
		verb = "Updated"
		if saved.ID == 0 {
			saved.ID = id
		}
	}
	fmt.Fprintf(a.out, "%s %s #%d\n", verb, kind.Singular(), saved.ID)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	kind, id, err := target(args)
	if err != nil {
		return err
	}
	switch kind {
	case catalog.KindCoffee:
		err = a.client.DeleteCoffee(ctx, id)
	case catalog.KindFood:
		err = a.client.DeleteFood(ctx, id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s #%d\n", kind.Singular(), id)
	return nil
}

func target(args []string) (catalog.Kind, int64, error) {
	if len(args) != 2 {
		return "", 0, errUsage
	}
	kind, err := catalog.ParseKind(args[0])
	if err != nil {
		return "", 0, err
	}
	id, err := catalog.ParseID(args[1])
	if err != nil {
		return "", 0, err
	}
	return kind, id, nil
}

func openImage(path string) (*catalog.Image, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open image")
	}
	return &catalog.Image{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        f,
	}, func() { _ = f.Close() }, nil
}

func displayName(username string) string {
	if strings.TrimSpace(username) == "" {
		return "Admin"
	}
	return username
}

// describe prefers the backend's message over the wrapped error chain
func describe(err error) string {
	var fe *api.FetchError
	switch {
	case errors.Is(err, errUsage):
		return "invalid arguments (see kopikata help)"
	case errors.Is(err, api.ErrAuth) && !errors.As(err, &fe):
		return "not logged in (run kopikata login)"
	}
	return api.Message(err)
}

func exitCode(err error) int {
	if errors.Is(err, errUsage) {
		return 2
	}
	return 1
}
