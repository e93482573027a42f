package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/refund-tracker/internal/attachment"
	"github.com/zombor/refund-tracker/internal/logging"
	"github.com/zombor/refund-tracker/internal/refund"
	"github.com/zombor/refund-tracker/internal/remote"
)

// User facing messages
const (
	msgEmptyList       = "Nenhuma solicitação encontrada!"
	msgCreated         = "Solicitação criada com sucesso!"
	msgMissingFields   = "Preencha todos os campos antes de adicionar!"
	msgInvalidFields   = "Confira os campos do formulário!"
	msgSaveFailed      = "Erro ao salvar solicitação."
	msgDeleteFailed    = "Erro ao excluir solicitação."
	msgDeleteTitle     = "Excluir solicitação"
	msgDeletePrompt    = "Você quer mesmo apagar essa solicitação?"
	msgDeleted         = "Solicitação excluída."
	msgNotFound        = "Solicitação não encontrada."
	msgNoAttachment    = "Nenhum arquivo encontrado."
	msgSharingMissing  = "Não é possível abrir o arquivo neste dispositivo."
	msgOpenFailed      = "Erro ao abrir o arquivo."
	msgDeleteCancelled = "Exclusão cancelada."
)

const (
	defaultAPITimeout   = 30 * time.Second
	defaultDatabasePath = "refunds.db"
	defaultCachePath    = "./receipts"
)

// alert is an error that has already been translated for the user
type alert struct {
	message string
	err     error
}

func (a *alert) Error() string {
	if a.err == nil {
		return a.message
	}
	return fmt.Sprintf("%s: %v", a.message, a.err)
}

func (a *alert) Unwrap() error {
	return a.err
}

// app holds what every subcommand needs once the root flags are parsed
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	apiURL   *string
	dbPath   *string
	cacheDir *string
	timeout  *time.Duration
	authUser *string
	authPass *string
	logLevel *string

	service  *refund.Service
	cache    *attachment.Cache
	sharer   attachment.Sharer
	closeFns []func() error
}

// run parses args and executes the selected subcommand
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		sharer: attachment.SystemSharer{},
	}
	defer a.close()

	root := a.command()
	err := root.ParseAndRun(ctx, args, ff.WithEnvVarPrefix("REFUNDS"))
	if errors.Is(err, ff.ErrHelp) || errors.Is(err, ff.ErrNoExec) {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Command(root.GetSelected()))
		return nil
	}
	return err
}

func (a *app) command() *ff.Command {
	fs := ff.NewFlagSet("refunds")
	a.apiURL = fs.StringLong("api", "", "Requests API base URL, e.g. http://localhost:3000 (empty keeps refunds in --db)")
	a.dbPath = fs.StringLong("db", defaultDatabasePath, "Database file path used when --api is empty")
	a.cacheDir = fs.StringLong("cache", defaultCachePath, "Directory receipts are copied into")
	a.timeout = fs.DurationLong("timeout", defaultAPITimeout, "Requests API timeout")
	a.authUser = fs.StringLong("auth-user", "", "Basic auth username for the requests API (optional)")
	a.authPass = fs.StringLong("auth-pass", "", "Basic auth password for the requests API (optional)")
	a.logLevel = fs.StringLong("log-level", "", "Log level: debug, info, warn or error (or set LOG_LEVEL env var)")
	fs.BoolLong("version", "Show version information")

	root := &ff.Command{
		Name:  "refunds",
		Usage: "refunds [FLAGS] <SUBCOMMAND>",
		Flags: fs,
	}
	root.Subcommands = []*ff.Command{
		a.listCommand(fs),
		a.addCommand(fs),
		a.showCommand(fs),
		a.openCommand(fs),
		a.deleteCommand(fs),
		a.categoriesCommand(fs),
	}
	return root
}

// setup wires the service and attachment cache from the parsed root flags
func (a *app) setup(ctx context.Context) error {
	logging.Setup(a.stderr, *a.logLevel)

	cache, err := attachment.NewCache(*a.cacheDir)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	a.cache = cache

	var backend refund.Backend
	if *a.apiURL != "" {
		slog.Debug("Using requests API", "url", *a.apiURL)
		client, err := remote.NewClient(*a.apiURL, remote.BasicAuth{
			Username: *a.authUser,
			Password: *a.authPass,
		}, *a.timeout)
		if err != nil {
			return fmt.Errorf("initializing requests API client: %w", err)
		}
		backend = client
	} else {
		slog.Debug("Using local database", "path", *a.dbPath)
		db, err := refund.NewBoltDB(*a.dbPath)
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		a.closeFns = append(a.closeFns, db.Close)
		backend = db
	}

	a.service = refund.NewService(refund.NewStore(), backend)
	// A failed load is logged by the service; the list simply starts empty.
	_ = a.service.Load(ctx)
	return nil
}

func (a *app) close() {
	for _, fn := range a.closeFns {
		if err := fn(); err != nil {
			slog.Warn("Failed to close resource", "error", err)
		}
	}
}

func (a *app) listCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("list").SetParent(parent)
	search := fs.StringLong("search", "", "Only show refunds whose name contains this text")

	return &ff.Command{
		Name:      "list",
		Usage:     "refunds list [--search TEXT]",
		ShortHelp: "list refund requests",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if err := a.setup(ctx); err != nil {
				return err
			}

			found := false
			for r := range a.service.Search(*search) {
				found = true
				fmt.Fprintf(a.stdout, "%s\t%-11s\t%-10s\t%s\t%s\n",
					r.ID, r.Category, r.Category.Icon(), r.Name, r.DisplayValue())
			}
			if !found {
				fmt.Fprintln(a.stdout, msgEmptyList)
			}
			return nil
		},
	}
}

func (a *app) addCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("add").SetParent(parent)
	name := fs.StringLong("name", "", "Request name")
	category := fs.StringLong("category", "", "Category: "+categoryList())
	value := fs.StringLong("value", "", "Amount as typed, digits are read as cents (4500 or 45,00)")
	file := fs.StringLong("file", "", "Receipt file to attach")

	return &ff.Command{
		Name:      "add",
		Usage:     "refunds add --name NAME --category CATEGORY --value AMOUNT --file PATH",
		ShortHelp: "create a refund request",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if err := a.setup(ctx); err != nil {
				return err
			}

			form := refund.NewForm(true)
			form.SetName(strings.TrimSpace(*name))
			form.SetCategory(refund.Category(strings.TrimSpace(*category)))
			if *value != "" {
				form.SetValue(*value)
			}

			resolver := attachment.NewResolver(&attachment.PathPicker{Path: *file, Cache: a.cache}, a.sharer)
			picked := resolver.PickFile(ctx)
			if picked != nil {
				form.SetAttachment(picked.Name, picked.Locator)
			}

			r, err := a.service.Submit(ctx, form)
			if err != nil {
				if picked != nil {
					if delErr := a.cache.Delete(picked.Locator); delErr != nil {
						slog.Warn("Failed to delete cached file", "path", picked.Locator, "error", delErr)
					}
				}
				return submitAlert(err)
			}

			fmt.Fprintln(a.stdout, msgCreated)
			fmt.Fprintln(a.stdout, r.ID)
			return nil
		},
	}
}

func (a *app) showCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("show").SetParent(parent)

	return &ff.Command{
		Name:      "show",
		Usage:     "refunds show ID",
		ShortHelp: "show the details of a refund request",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			r, err := a.selected(ctx, args)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "Nome da solicitação: %s\n", r.Name)
			fmt.Fprintf(a.stdout, "Categoria: %s\n", r.Category)
			fmt.Fprintf(a.stdout, "Valor: %s\n", refund.FormatValue(r.Value))
			fmt.Fprintf(a.stdout, "Comprovante: %s\n", r.FileName)
			return nil
		},
	}
}

func (a *app) openCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("open").SetParent(parent)

	return &ff.Command{
		Name:      "open",
		Usage:     "refunds open ID",
		ShortHelp: "open the receipt of a refund request",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			r, err := a.selected(ctx, args)
			if err != nil {
				return err
			}

			resolver := attachment.NewResolver(&attachment.PathPicker{Cache: a.cache}, a.sharer)
			if err := resolver.OpenFile(ctx, r.FileURI); err != nil {
				return openAlert(err)
			}
			return nil
		},
	}
}

func (a *app) deleteCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("delete").SetParent(parent)
	// --yes swallows a following "1" or "true" as its value; IDs go after -y or --.
	yes := fs.Bool('y', "yes", "Skip the confirmation prompt")

	return &ff.Command{
		Name:      "delete",
		Usage:     "refunds delete [-y | --yes --] ID",
		ShortHelp: "delete a refund request",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			r, err := a.selected(ctx, args)
			if err != nil {
				return err
			}

			if !*yes && !a.confirm() {
				fmt.Fprintln(a.stdout, msgDeleteCancelled)
				return nil
			}

			if err := a.service.Delete(ctx, r.ID); err != nil {
				return &alert{message: msgDeleteFailed, err: err}
			}

			if r.FileURI != "" {
				if err := a.cache.Delete(r.FileURI); err != nil {
					slog.Debug("Cached receipt not removed", "path", r.FileURI, "error", err)
				}
			}

			fmt.Fprintln(a.stdout, msgDeleted)
			return nil
		},
	}
}

func (a *app) categoriesCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("categories").SetParent(parent)

	return &ff.Command{
		Name:      "categories",
		Usage:     "refunds categories",
		ShortHelp: "list the selectable categories",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			for _, c := range refund.Categories() {
				fmt.Fprintf(a.stdout, "%s\t%s\n", c, c.Icon())
			}
			return nil
		},
	}
}

// selected loads the refunds and returns the one named by the single ID argument
func (a *app) selected(ctx context.Context, args []string) (refund.Refund, error) {
	if len(args) != 1 {
		return refund.Refund{}, fmt.Errorf("expected exactly one refund ID, got %d arguments", len(args))
	}
	if err := a.setup(ctx); err != nil {
		return refund.Refund{}, err
	}

	r, err := a.service.Get(args[0])
	if err != nil {
		return refund.Refund{}, &alert{message: msgNotFound, err: err}
	}
	return r, nil
}

// confirm asks the user to confirm a deletion
func (a *app) confirm() bool {
	fmt.Fprintf(a.stdout, "%s\n%s [s/N] ", msgDeleteTitle, msgDeletePrompt)
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true
	default:
		return false
	}
}

func submitAlert(err error) error {
	var verr *refund.ValidationError
	if errors.As(err, &verr) {
		if verr.Reason == refund.ReasonMissingField {
			return &alert{message: msgMissingFields, err: err}
		}
		return &alert{message: msgInvalidFields, err: err}
	}
	return &alert{message: msgSaveFailed, err: err}
}

func openAlert(err error) error {
	switch {
	case errors.Is(err, attachment.ErrNoAttachment):
		return &alert{message: msgNoAttachment, err: err}
	case errors.Is(err, attachment.ErrSharingUnavailable):
		return &alert{message: msgSharingMissing, err: err}
	default:
		return &alert{message: msgOpenFailed, err: err}
	}
}

func categoryList() string {
	names := make([]string, 0, len(refund.Categories()))
	for _, c := range refund.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
