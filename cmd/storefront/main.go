package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/views"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const help = `commands:
  login <email> <password>     register <email> <password>
  products                     cart
  add <id>                     remove <id>
  order                        inc <id> | dec <id> | close
  admin                        create <name>|<price>|<description>
  edit <id>                    update <name>|<price>|<description>
  delete <id>                  logout
  help                         quit`

type shell struct {
	app *views.App
	out io.Writer
}

func main() {
	cfg := config.Load()
	if err := cfg.ValidateClient(); err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	gdb, err := db.Open(ctx, cfg.StorageDSN)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer func() { _ = db.Close(gdb) }()

	storage, err := session.NewGormStorage(gdb)
	if err != nil {
		log.Fatalf("storage migrate error: %v", err)
	}
	store, err := session.NewStore(ctx, storage)
	if err != nil {
		log.Fatalf("session load error: %v", err)
	}

	sh := &shell{
		app: views.NewApp(apiclient.NewClient(cfg.APIURL, cfg.HTTPTimeout), store),
		out: os.Stdout,
	}
	sh.resume(ctx)
	sh.run(ctx, os.Stdin)
}

// resume lands a persisted session on its view.
func (s *shell) resume(ctx context.Context) {
	cur := s.app.Session.Current()
	if !cur.Authenticated() {
		fmt.Fprintln(s.out, "not logged in; type help")
		return
	}
	s.app.Router.Navigate(ctx, guard.LandingRoute(cur.Role))
	s.enter(ctx)
}

func (s *shell) run(ctx context.Context, in io.Reader) {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintf(s.out, "%s> ", s.app.Router.Current())
		if !sc.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		if cmd == "quit" || cmd == "exit" {
			return
		}
		s.dispatch(ctx, cmd, strings.TrimSpace(rest))
	}
}

func (s *shell) dispatch(ctx context.Context, cmd, arg string) {
	a := s.app
	switch cmd {
	case "help":
		fmt.Fprintln(s.out, help)
	case "login":
		email, password, _ := strings.Cut(arg, " ")
		if err := a.Login.Submit(ctx, email, password); err != nil {
			s.say(a.Login.Message())
			return
		}
		s.enter(ctx)
	case "register":
		email, password, _ := strings.Cut(arg, " ")
		_ = a.Register.Submit(ctx, email, password)
		s.say(a.Register.Message())
	case "products":
		s.enter(ctx)
	case "cart":
		if a.Dashboard.Enter(ctx) {
			s.printCart()
		}
		s.say(a.Dashboard.Message())
	case "add":
		_ = a.Dashboard.AddToCart(ctx, arg)
		s.printCart()
		s.say(a.Dashboard.Message())
	case "remove":
		_ = a.Dashboard.RemoveFromCart(ctx, arg)
		s.printCart()
		s.say(a.Dashboard.Message())
	case "order":
		if _, err := a.Dashboard.PlaceOrder(ctx); err != nil {
			s.say(a.Dashboard.Message())
			return
		}
		s.printOrder()
	case "inc", "dec":
		op := a.Dashboard.Increment
		if cmd == "dec" {
			op = a.Dashboard.Decrement
		}
		if _, err := op(arg); err != nil {
			s.say(err.Error())
			return
		}
		s.printOrder()
	case "close":
		a.Dashboard.CloseOrder()
	case "admin":
		if a.Admin.Enter(ctx) {
			s.printProducts(a.Admin.Products())
		}
		s.say(a.Admin.Message())
	case "create":
		name, price, desc := splitFields(arg)
		if _, err := a.Admin.Create(ctx, name, price, desc); err == nil {
			s.printProducts(a.Admin.Products())
		}
		s.say(a.Admin.Message())
	case "edit":
		p, err := a.Admin.BeginEdit(arg)
		if err != nil {
			s.say(err.Error())
			return
		}
		fmt.Fprintf(s.out, "editing %s|%.2f|%s\n", p.Name, p.Price, p.Description)
	case "update":
		name, price, desc := splitFields(arg)
		if _, err := a.Admin.Update(ctx, name, price, desc); err == nil {
			s.printProducts(a.Admin.Products())
		}
		s.say(a.Admin.Message())
	case "delete":
		if err := a.Admin.Delete(ctx, arg); err == nil {
			s.printProducts(a.Admin.Products())
		}
		s.say(a.Admin.Message())
	case "logout":
		if a.Router.Current() == guard.RouteAdminPanel {
			a.Admin.Logout(ctx)
		} else {
			a.Dashboard.Logout(ctx)
		}
	default:
		s.say("unknown command " + cmd + "; type help")
	}
}

// enter opens the view the router points at.
func (s *shell) enter(ctx context.Context) {
	a := s.app
	switch a.Router.Current() {
	case guard.RouteAdminPanel:
		if a.Admin.Enter(ctx) {
			s.printProducts(a.Admin.Products())
		}
		s.say(a.Admin.Message())
	case guard.RouteUserDashboard:
		if a.Dashboard.Enter(ctx) {
			s.printProducts(a.Dashboard.Products())
			s.printCart()
		}
		s.say(a.Dashboard.Message())
	default:
		products, err := a.Admin.Catalog.ListProducts(ctx)
		if err != nil {
			s.say(apiclient.Message(err))
			return
		}
		s.printProducts(products)
	}
}

func (s *shell) say(msg string) {
	if msg != "" {
		fmt.Fprintln(s.out, msg)
	}
}

func (s *shell) printProducts(products []models.Product) {
	if len(products) == 0 {
		fmt.Fprintln(s.out, "no products")
		return
	}
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tDESCRIPTION")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t$%.2f\t%s\n", p.ID, p.Name, p.Price, p.Description)
	}
	_ = w.Flush()
}

func (s *shell) printCart() {
	lines := s.app.Dashboard.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(s.out, "cart is empty")
		return
	}
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tTOTAL")
	for _, l := range lines {
		fmt.Fprintf(w, "%s\t%s\t%d\t$%.2f\n", l.Product.ID, l.Product.Name, l.Quantity, l.Total())
	}
	_ = w.Flush()
}

func (s *shell) printOrder() {
	if err := s.app.Dashboard.Order.Render(s.out); err != nil {
		s.say(err.Error())
	}
}

func splitFields(arg string) (string, string, string) {
	parts := strings.SplitN(arg, "|", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return parts[0], parts[1], parts[2]
}
