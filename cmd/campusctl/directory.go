package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/uniport/campus-api/internal/bootstrap"
	domainauth "github.com/uniport/campus-api/internal/domain/auth"
	"github.com/uniport/campus-api/internal/domain/model"
)

type directoryFindOptions struct {
	ID    string
	Email string
}

type provisionOptions struct {
	PersonID string
}

type enrichOptions struct {
	ID      string
	RawJSON bool
}

type canAccessOptions struct {
	Token    string
	ID       string
	Action   string
	Subject  string
	UseLocal bool
}

type migrateOptions struct {
	Timeout time.Duration
}

func runTokenCheck(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	services := connectServicesOnly(cmdCtx)

	token, err := services.Tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("fetch directory token: %w", err)
	}

	if err := writef(os.Stdout, "Token acquired\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Expires at: %s (in %s)\n",
		token.ExpiresAt.Format(time.RFC3339), time.Until(token.ExpiresAt).Round(time.Second)); err != nil {
		return err
	}
	return nil
}

func runDirectoryFind(cmdCtx *commandContext, args []string) error {
	opts, err := parseDirectoryFindFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	services := connectServicesOnly(cmdCtx)

	var users []model.DirectoryUser
	if opts.ID != "" {
		users = services.DirectoryClient.FindByID(ctx, opts.ID)
	} else {
		users = services.DirectoryClient.FindByEmail(ctx, opts.Email)
	}

	if len(users) == 0 {
		return writeln(os.Stdout, "No directory users found")
	}
	return printDirectoryUsers(users)
}

func printDirectoryUsers(users []model.DirectoryUser) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "ID\tUsername\tName\tEmail\tEnabled"); err != nil {
		return err
	}
	for _, u := range users {
		if err := writef(w, "%s\t%s\t%s %s\t%s\t%t\n",
			u.ID, u.Username, u.FirstName, u.LastName, u.Email, u.Enabled); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush directory users: %w", err)
	}
	return nil
}

func runProvision(cmdCtx *commandContext, args []string) error {
	opts, err := parseProvisionFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	services, cleanup, err := connectInfra(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	person, err := services.Persons.GetByID(ctx, opts.PersonID)
	if err != nil {
		return fmt.Errorf("load person %s: %w", opts.PersonID, err)
	}

	user, err := services.Directory.ProvisionPerson(ctx, *person)
	if err != nil {
		return fmt.Errorf("provision person %s: %w", opts.PersonID, err)
	}

	if err := writef(os.Stdout, "Directory user created: id=%s username=%s\n", user.ID, user.Username); err != nil {
		return err
	}
	return nil
}

func runEnrich(cmdCtx *commandContext, args []string) error {
	opts, err := parseEnrichFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	services, cleanup, err := connectInfra(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	person, err := services.Persons.GetByID(ctx, opts.ID)
	if err != nil {
		return fmt.Errorf("load person %s: %w", opts.ID, err)
	}

	enriched := services.Enrichment.Enrich(ctx, *person)

	if opts.RawJSON {
		payload, err := json.MarshalIndent(enriched, "", "  ")
		if err != nil {
			return fmt.Errorf("encode enriched person: %w", err)
		}
		return writef(os.Stdout, "%s\n", payload)
	}

	if err := writef(os.Stdout, "Person: %s %s <%s> kind=%s\n",
		enriched.FirstName, enriched.LastName, enriched.Email, enriched.Kind); err != nil {
		return err
	}
	if !enriched.DirectoryResolved {
		return writeln(os.Stdout, "Directory: no record resolved")
	}
	return writef(os.Stdout, "Directory: username=%s name=%s %s email=%s\n",
		deref(enriched.Username), deref(enriched.DirectoryFirst),
		deref(enriched.DirectoryLast), deref(enriched.DirectoryEmail))
}

func runCanAccess(cmdCtx *commandContext, args []string) error {
	opts, err := parseCanAccessFlags(args)
	if err != nil {
		return err
	}

	action, ok := model.ParseAction(opts.Action)
	if !ok {
		return fmt.Errorf("unknown action %q (want Read, Write, or Delete)", opts.Action)
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	token, err := resolveToken(ctx, cmdCtx, opts)
	if err != nil {
		return err
	}

	services, cleanup, err := connectInfra(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	allowed := services.Permission.CanAccess(ctx, token, opts.ID, action)
	if allowed {
		return writef(os.Stdout, "ALLOW %s on %s\n", action, opts.ID)
	}
	return writef(os.Stdout, "DENY %s on %s\n", action, opts.ID)
}

func parseDirectoryFindFlags(args []string) (directoryFindOptions, error) {
	fs := flag.NewFlagSet("directory-find", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts directoryFindOptions
	fs.StringVar(&opts.ID, "id", "", "Directory user id to look up")
	fs.StringVar(&opts.Email, "email", "", "Directory email to look up")

	if err := fs.Parse(args); err != nil {
		return directoryFindOptions{}, err
	}

	opts.ID = strings.TrimSpace(opts.ID)
	opts.Email = strings.TrimSpace(opts.Email)
	if (opts.ID == "") == (opts.Email == "") {
		return directoryFindOptions{}, errors.New("exactly one of --id or --email is required")
	}
	return opts, nil
}

func parseProvisionFlags(args []string) (provisionOptions, error) {
	fs := flag.NewFlagSet("provision", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts provisionOptions
	fs.StringVar(&opts.PersonID, "person-id", "", "Person record id to provision (required)")

	if err := fs.Parse(args); err != nil {
		return provisionOptions{}, err
	}

	opts.PersonID = strings.TrimSpace(opts.PersonID)
	if opts.PersonID == "" {
		return provisionOptions{}, fmt.Errorf("%w: --person-id", errMissingFlag)
	}
	return opts, nil
}

func parseEnrichFlags(args []string) (enrichOptions, error) {
	fs := flag.NewFlagSet("enrich", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts enrichOptions
	fs.StringVar(&opts.ID, "id", "", "Person record id to enrich (required)")
	fs.BoolVar(&opts.RawJSON, "json", false, "Print the enriched record as JSON")

	if err := fs.Parse(args); err != nil {
		return enrichOptions{}, err
	}

	opts.ID = strings.TrimSpace(opts.ID)
	if opts.ID == "" {
		return enrichOptions{}, fmt.Errorf("%w: --id", errMissingFlag)
	}
	return opts, nil
}

func parseCanAccessFlags(args []string) (canAccessOptions, error) {
	fs := flag.NewFlagSet("can-access", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts canAccessOptions
	fs.StringVar(&opts.Token, "token", "", "Raw bearer token to verify against the realm issuer")
	fs.StringVar(&opts.ID, "id", "", "Person record id the action targets (required)")
	fs.StringVar(&opts.Action, "action", "", "Action to evaluate: Read, Write, or Delete (required)")
	fs.StringVar(&opts.Subject, "claims", "", "Inline claims JSON to evaluate instead of a verified token")

	if err := fs.Parse(args); err != nil {
		return canAccessOptions{}, err
	}

	opts.Token = strings.TrimSpace(opts.Token)
	opts.ID = strings.TrimSpace(opts.ID)
	opts.Action = strings.TrimSpace(opts.Action)
	opts.Subject = strings.TrimSpace(opts.Subject)
	opts.UseLocal = opts.Subject != ""

	if opts.ID == "" {
		return canAccessOptions{}, fmt.Errorf("%w: --id", errMissingFlag)
	}
	if opts.Action == "" {
		return canAccessOptions{}, fmt.Errorf("%w: --action", errMissingFlag)
	}
	if (opts.Token == "") == !opts.UseLocal {
		return canAccessOptions{}, errors.New("exactly one of --token or --claims is required")
	}
	return opts, nil
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{Timeout: defaultMigrationTimeout}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete")

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}

	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

// resolveToken either verifies a real bearer token against the realm issuer
// or decodes inline claims JSON for offline permission dry-runs.
func resolveToken(ctx context.Context, cmdCtx *commandContext, opts canAccessOptions) (domainauth.Token, error) {
	if opts.UseLocal {
		var claims map[string]any
		if err := json.Unmarshal([]byte(opts.Subject), &claims); err != nil {
			return domainauth.Token{}, fmt.Errorf("decode --claims JSON: %w", err)
		}
		return domainauth.Token{Subject: "local", Claims: claims}, nil
	}

	verifier, err := bootstrap.NewTokenVerifier(ctx, cmdCtx.Config.OIDC)
	if err != nil {
		return domainauth.Token{}, fmt.Errorf("init token verifier: %w", err)
	}
	token, err := verifier.Verify(ctx, opts.Token)
	if err != nil {
		return domainauth.Token{}, fmt.Errorf("verify token: %w", err)
	}
	return token, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
