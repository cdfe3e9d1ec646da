package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/stockdeck/stockdeck/internal/api"
	"github.com/stockdeck/stockdeck/internal/app"
	"github.com/stockdeck/stockdeck/internal/console"
	"github.com/stockdeck/stockdeck/internal/platform/httpx"
	"github.com/stockdeck/stockdeck/internal/session"
)

const usage = `usage: stockdeck <command> [args]

  login <identifier>                 authenticate (password read from stdin)
  register <name> <email> [role]     create an account (pending approval)
  logout                             clear the stored session
  whoami                             show the authenticated user

  dashboard [-page N] [-search S] [-low]   product overview
  stock <id> <in|out> <qty> [note]         record a stock movement
  history <id>                             stock movement trail of a product

  suppliers list                            supplier directory
  suppliers add <name> <contact> <phone> <email> [address]
  suppliers delete <id>
  categories list|add <name>|delete <id>
  users list                                user management (admin)
  users approve <id> [role]
  users role <id> <role>
  users deactivate <id>
  users delete <id>
  logs [ALL|CREATE|UPDATE|DELETE]           activity log (admin)
  export <products|logs>                    download a backend export
  profile name <new name>
  profile password                          change password (read from stdin)
`

type cli struct {
	cfg      *app.Config
	logger   *slog.Logger
	ui       *console.TerminalUI
	sessions *session.Store

	products   *api.ProductService
	suppliers  *api.SupplierService
	categories *api.CategoryService
	admin      *api.AdminService
	exports    *api.ExportService
	profile    *api.ProfileService
	dashboard  *console.Dashboard
}

func main() {
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	c := newCLI(cfg, logger)
	if err := c.run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			fmt.Fprintln(os.Stderr, "not logged in; run: stockdeck login <identifier>")
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", httpx.Message(err, err.Error()))
		os.Exit(1)
	}
}

func newCLI(cfg *app.Config, logger *slog.Logger) *cli {
	// The session store is the token source for every request, so the
	// unauthenticated auth client is built first and the store wires the
	// transport for the rest.
	authClient := httpx.New(cfg.APIBaseURL, cfg.RequestTimeout, nil, logger)
	sessions := session.NewStore(cfg.SessionFile, api.NewAuthService(authClient))
	client := httpx.New(cfg.APIBaseURL, cfg.RequestTimeout, sessions, logger)

	products := api.NewProductService(client)
	suppliers := api.NewSupplierService(client)

	return &cli{
		cfg:        cfg,
		logger:     logger,
		ui:         &console.TerminalUI{In: os.Stdin, Out: os.Stdout},
		sessions:   sessions,
		products:   products,
		suppliers:  suppliers,
		categories: api.NewCategoryService(client),
		admin:      api.NewAdminService(client),
		exports:    api.NewExportService(client, cfg.DownloadDir),
		profile:    api.NewProfileService(client),
		dashboard:  console.NewDashboard(products, suppliers, cfg.PageSize, logger),
	}
}

func (c *cli) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return c.login(ctx, args)
	case "register":
		return c.register(ctx, args)
	case "logout":
		c.sessions.Logout()
		c.ui.Info("Logged out.")
		return nil
	case "whoami":
		return c.whoami()
	case "dashboard":
		return c.showDashboard(ctx, args)
	case "stock":
		return c.stock(ctx, args)
	case "history":
		return c.history(ctx, args)
	case "suppliers":
		return c.supplierCmd(ctx, args)
	case "categories":
		return c.categoryCmd(ctx, args)
	case "users":
		return c.userCmd(ctx, args)
	case "logs":
		return c.logsCmd(ctx, args)
	case "export":
		return c.exportCmd(ctx, args)
	case "profile":
		return c.profileCmd(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (c *cli) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: login <identifier>")
	}
	password, err := c.readSecret("Password: ")
	if err != nil {
		return err
	}
	user, err := c.sessions.Login(ctx, args[0], password)
	if err != nil {
		return err
	}
	c.ui.Info(fmt.Sprintf("Welcome back, %s (%s).", user.Name, user.Role))
	return nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errors.New("usage: register <name> <email> [role]")
	}
	role := api.Role("")
	if len(args) == 3 {
		role = api.Role(args[2])
	}
	password, err := c.readSecret("Password: ")
	if err != nil {
		return err
	}
	user, err := c.sessions.Register(ctx, args[0], args[1], password, role)
	if err != nil {
		return err
	}
	if user.IsActive {
		c.ui.Info(fmt.Sprintf("Registered as %s.", user.Email))
	} else {
		c.ui.Info(fmt.Sprintf("Registered as %s. Your account is pending approval from an admin.", user.Email))
	}
	return nil
}

func (c *cli) whoami() error {
	user, err := c.sessions.Require()
	if err != nil {
		return err
	}
	c.ui.Info(fmt.Sprintf("%s <%s> role=%s", user.Name, user.Email, user.Role))
	if expiry, ok := c.sessions.TokenExpiry(); ok {
		c.ui.Info("session expires " + expiry.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func (c *cli) showDashboard(ctx context.Context, args []string) error {
	if _, err := c.sessions.Require(); err != nil {
		return err
	}
	flags := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	page := flags.Int("page", 1, "page to display")
	search := flags.String("search", "", "free-text product search")
	low := flags.Bool("low", false, "show only low-stock products")
	if err := flags.Parse(args); err != nil {
		return err
	}

	d := c.dashboard
	d.Prime(*page, *search, *low)
	if err := d.Refresh(ctx); err != nil {
		return err
	}

	stats := d.Stats()
	c.ui.Info(fmt.Sprintf("Products: %d   Low stock: %d   Suppliers: %d",
		stats.TotalProducts, stats.LowStockCount, stats.TotalSuppliers))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSKU\tNAME\tPRICE\tSTOCK\tMIN\t")
	for _, p := range d.Products() {
		marker := ""
		if p.LowStock() {
			marker = "LOW"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%s\n", p.ID, p.SKU, p.Name, p.Price, p.Stock, p.MinStock, marker)
	}
	w.Flush()

	if d.ShowPagination() {
		c.ui.Info(fmt.Sprintf("Page %d of %d", d.Pagination().Page, d.Pagination().TotalPages))
	}
	return nil
}

func (c *cli) stock(ctx context.Context, args []string) error {
	if _, err := c.sessions.Require(); err != nil {
		return err
	}
	if len(args) < 3 {
		return errors.New("usage: stock <id> <in|out> <qty> [note]")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	product, err := c.products.Get(ctx, id)
	if err != nil {
		return err
	}

	form := console.NewStockForm(product, c.products, c.ui, nil)
	form.SetDirection(api.MovementType(args[1]))
	form.SetQuantity(args[2])
	if len(args) > 3 {
		form.SetNote(strings.Join(args[3:], " "))
	}
	if projected, ok := form.Projection(); ok {
		c.ui.Info(fmt.Sprintf("%s: %d -> %d", product.Name, product.Stock, projected))
	}
	if !form.Submit(ctx) {
		return errors.New("stock update not applied")
	}
	return c.showDashboard(ctx, nil)
}

func (c *cli) history(ctx context.Context, args []string) error {
	if _, err := c.sessions.Require(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: history <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	history, err := c.products.History(ctx, id)
	if err != nil {
		return err
	}
	c.ui.Info(fmt.Sprintf("%s (current stock %d)", history.Product.Name, history.Product.Stock))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tTYPE\tQTY\tBEFORE\tAFTER\tNOTE")
	for _, m := range history.History {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			m.CreatedAt.Local().Format("2006-01-02 15:04"), m.Type, m.Quantity, m.StockBefore, m.StockAfter, m.Note)
	}
	return w.Flush()
}

func (c *cli) supplierCmd(ctx context.Context, args []string) error {
	if _, err := c.sessions.Require(); err != nil {
		return err
	}
	view := console.NewSupplierAdmin(c.suppliers, c.ui, c.ui, nil)
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		if err := view.Load(ctx); err != nil {
			c.logger.Error("supplier load failed", slog.Any("error", err))
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCONTACT\tPHONE\tEMAIL")
		for _, s := range view.Suppliers() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.ContactName, s.Phone, s.Email)
		}
		return w.Flush()
	case "add":
		if len(args) < 5 {
			return errors.New("usage: suppliers add <name> <contact> <phone> <email> [address]")
		}
		form := console.SupplierForm{Name: args[1], ContactName: args[2], Phone: args[3], Email: args[4]}
		if len(args) > 5 {
			form.Address = strings.Join(args[5:], " ")
		}
		return view.Save(ctx, nil, form)
	case "delete":
		if len(args) != 2 {
			return errors.New("usage: suppliers delete <id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid supplier id %q", args[1])
		}
		return view.Delete(ctx, id)
	default:
		return fmt.Errorf("unknown suppliers subcommand %q", args[0])
	}
}

func (c *cli) categoryCmd(ctx context.Context, args []string) error {
	if _, err := c.sessions.Require(); err != nil {
		return err
	}
	view := console.NewCategoryAdmin(c.categories, c.ui, c.ui)
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		if err := view.Load(ctx); err != nil {
			c.logger.Error("category load failed", slog.Any("error", err))
			return nil
		}
		for _, cat := range view.Categories() {
			c.ui.Info(fmt.Sprintf("%d\t%s", cat.ID, cat.Name))
		}
		return nil
	case "add":
		if len(args) < 2 {
			return errors.New("usage: categories add <name>")
		}
		return view.Save(ctx, nil, strings.Join(args[1:], " "))
	case "delete":
		if len(args) != 2 {
			return errors.New("usage: categories delete <id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id %q", args[1])
		}
		return view.Delete(ctx, id)
	default:
		return fmt.Errorf("unknown categories subcommand %q", args[0])
	}
}

func (c *cli) userCmd(ctx context.Context, args []string) error {
	current, err := c.sessions.Require()
	if err != nil {
		return err
	}
	view := console.NewUserAdmin(c.admin, current, c.ui, c.ui)
	if len(args) == 0 {
		args = []string{"list"}
	}
	if err := view.Load(ctx); err != nil {
		c.logger.Error("user load failed", slog.Any("error", err))
		return nil
	}
	switch args[0] {
	case "list":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tSTATUS")
		for _, u := range view.Users() {
			status := "active"
			if !u.IsActive {
				status = "PENDING"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, status)
		}
		return w.Flush()
	case "approve", "role", "deactivate", "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: users %s <id> ...", args[0])
		}
		target, ok := findUser(view.Users(), args[1])
		if !ok {
			return fmt.Errorf("no user with id %s", args[1])
		}
		switch args[0] {
		case "approve":
			role := target.Role
			if len(args) > 2 {
				role = api.Role(args[2])
			}
			return view.Approve(ctx, target, role)
		case "role":
			if len(args) != 3 {
				return errors.New("usage: users role <id> <role>")
			}
			return view.SaveRole(ctx, target, api.Role(args[2]))
		case "deactivate":
			return view.Deactivate(ctx, target)
		default:
			return view.Delete(ctx, target)
		}
	default:
		return fmt.Errorf("unknown users subcommand %q", args[0])
	}
}

func (c *cli) logsCmd(ctx context.Context, args []string) error {
	if _, err := c.sessions.Require(); err != nil {
		return err
	}
	view := console.NewActivityView(c.admin, c.exports, c.ui)
	if err := view.Load(ctx); err != nil {
		c.logger.Error("activity log load failed", slog.Any("error", err))
		return nil
	}
	if len(args) > 0 {
		view.SetFilter(strings.ToUpper(args[0]))
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tUSER\tACTION\tDETAILS")
	for _, e := range view.Entries() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.User.Name, e.Action, e.Details)
	}
	return w.Flush()
}

func (c *cli) exportCmd(ctx context.Context, args []string) error {
	if _, err := c.sessions.Require(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: export <products|logs>")
	}
	var (
		path string
		err  error
	)
	switch args[0] {
	case "products":
		path, err = c.exports.DownloadProducts(ctx)
	case "logs":
		path, err = c.exports.DownloadActivityLogs(ctx)
	default:
		return fmt.Errorf("unknown export %q", args[0])
	}
	if err != nil {
		return err
	}
	c.ui.Info("Saved " + path)
	return nil
}

func (c *cli) profileCmd(ctx context.Context, args []string) error {
	if _, err := c.sessions.Require(); err != nil {
		return err
	}
	view := console.NewProfileView(c.profile, c.sessions, c.ui)
	if len(args) == 0 {
		return errors.New("usage: profile name <new name> | profile password")
	}
	switch args[0] {
	case "name":
		if len(args) < 2 {
			return errors.New("usage: profile name <new name>")
		}
		return view.UpdateName(ctx, strings.Join(args[1:], " "))
	case "password":
		current, err := c.readSecret("Current password: ")
		if err != nil {
			return err
		}
		next, err := c.readSecret("New password: ")
		if err != nil {
			return err
		}
		repeat, err := c.readSecret("Repeat new password: ")
		if err != nil {
			return err
		}
		return view.ChangePassword(ctx, current, next, repeat)
	default:
		return fmt.Errorf("unknown profile subcommand %q", args[0])
	}
}

func (c *cli) readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stdout, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func findUser(users []api.User, rawID string) (api.User, bool) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return api.User{}, false
	}
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return api.User{}, false
}
