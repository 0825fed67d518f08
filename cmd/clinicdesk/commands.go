package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mrsinham/clinicdesk/cmd/clinicdesk/wizard"
	"github.com/mrsinham/clinicdesk/internal/clinicapi"
	"github.com/mrsinham/clinicdesk/internal/intake"
	"github.com/mrsinham/clinicdesk/internal/sandbox"
)

const (
	sandboxTokenTTL  = 12 * time.Hour
	shutdownTimeout  = 5 * time.Second
	readHeaderBudget = 10 * time.Second
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

func intakeCmd(a *app) *cobra.Command {
	var fromDraft, draftPath string

	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Book a walk-in appointment with the interactive wizard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkToken(a.cfg.APIToken, time.Now()); err != nil {
				return err
			}
			if err := a.logToFile(); err != nil {
				return err
			}
			svc, err := a.services()
			if err != nil {
				return err
			}

			summary, err := wizard.Run(cmd.Context(), svc, wizard.Options{
				FromDraft: fromDraft,
				DraftPath: draftPath,
				Logger:    &a.log,
			})
			if err != nil {
				a.log.Error().Err(err).Msg("intake failed")
				return err
			}
			if summary == nil {
				fmt.Fprintln(a.out, "Intake cancelled.")
				return nil
			}
			printSummary(a.out, *summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromDraft, "from", "", "Resume from a saved draft file")
	cmd.Flags().StringVar(&draftPath, "draft-path", "", "Default path proposed when saving a draft (default "+wizard.DefaultDraftPath+")")
	return cmd
}

func lookupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <phone>",
		Short: "Look a patient up by phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phone := intake.SanitizePhone(args[0])
			if len(phone) != intake.PhoneDigits {
				return intake.ErrPhoneRequired
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.LookupPatient(cmd.Context(), phone)
			if err != nil {
				return err
			}
			if !res.Found {
				fmt.Fprintf(a.out, "No patient registered with %s\n", phone)
				return nil
			}
			printPatient(a.out, *res.Patient)
			return nil
		},
	}
}

func catalogsCmd(a *app) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "catalogs",
		Short: "List audiologists, procedures, doctors and hospitals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			src := a.catalogs(c)
			if cached, ok := src.(*clinicapi.CachedCatalogs); ok && refresh {
				if err := cached.Invalidate(cmd.Context()); err != nil {
					return err
				}
			}

			cats, err := intake.LoadCatalogs(cmd.Context(), src)
			if err != nil {
				return err
			}
			printCatalogs(a.out, cats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Drop the cached catalogs before listing")
	return cmd
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the staff member the API token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.APIToken == "" {
				return errors.New("no api_token configured")
			}
			info, err := clinicapi.ParseTokenInfo(a.cfg.APIToken)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s\n", info.DisplayName())
			if !info.ExpiresAt.IsZero() {
				state := "valid until"
				if info.Expired(time.Now()) {
					state = "expired at"
				}
				fmt.Fprintf(a.out, "Token %s %s\n", state, info.ExpiresAt.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}

func sandboxCmd(a *app) *cobra.Command {
	var (
		addr     string
		patients int
		secret   string
		seed     uint64
		away     []string
	)

	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Serve an in-memory clinic API for training and demos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.SandboxAddr
			}
			if !cmd.Flags().Changed("patients") {
				patients = a.cfg.SandboxPatients
			}
			if !cmd.Flags().Changed("secret") {
				secret = a.cfg.SandboxSecret
			}

			opts := sandbox.SeedOptions{Patients: patients, Now: time.Now()}
			if seed != 0 {
				opts.RNG = rand.New(rand.NewPCG(seed, seed))
			}
			store := sandbox.NewStore(opts)
			for _, entry := range away {
				audiologistID, date, ok := strings.Cut(entry, ":")
				if !ok || audiologistID == "" || date == "" {
					return fmt.Errorf("invalid --away %q, expected <audiologist-id>:<YYYY-MM-DD>", entry)
				}
				store.MarkAway(audiologistID, date)
			}

			srv := sandbox.NewServer(store, sandbox.Options{Secret: []byte(secret), Logger: &a.log})
			if secret != "" {
				token, err := sandbox.IssueToken([]byte(secret), "desk-1", "Front Desk", sandboxTokenTTL)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Bearer token (valid %s):\n%s\n", sandboxTokenTTL, token)
			}
			return serve(cmd.Context(), a, addr, srv.Routes(), len(store.Patients()))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from sandbox_addr)")
	cmd.Flags().IntVar(&patients, "patients", 0, "Number of generated demo patients (default from sandbox_patients)")
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 secret enabling bearer authentication")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for reproducible demo patients")
	cmd.Flags().StringSliceVar(&away, "away", nil, "Mark an audiologist unavailable, as <audiologist-id>:<YYYY-MM-DD>")
	return cmd
}

func serve(ctx context.Context, a *app, addr string, h http.Handler, patients int) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: readHeaderBudget,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", addr).Int("patients", patients).Msg("sandbox listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down sandbox")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// checkToken refuses to start an intake with a token the backend will
// reject anyway. Opaque tokens are let through.
func checkToken(token string, now time.Time) error {
	if token == "" {
		return nil
	}
	info, err := clinicapi.ParseTokenInfo(token)
	if err == nil && info.Expired(now) {
		return fmt.Errorf("api token of %s expired at %s", info.DisplayName(), info.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

func printSummary(w io.Writer, s intake.AppointmentSummary) {
	fmt.Fprintln(w, headerStyle.Render("Appointment booked"))
	patient := "Returning patient"
	if s.NewPatient {
		patient = "New patient"
	}
	rows := [][]string{
		{"Appointment", s.AppointmentID},
		{patient, fmt.Sprintf("%s (%s)", s.PatientName, s.PatientID)},
		{"Phone", s.PhoneNumber},
		{"Audiologist", s.AudiologistName},
		{"When", s.Date + " " + s.Time},
		{"Duration", strconv.Itoa(s.Duration) + " min"},
		{"Procedures", s.Procedures},
		{"Referral", s.ReferralSource},
	}
	fmt.Fprintln(w, table.New().Border(lipgloss.HiddenBorder()).Rows(rows...).String())
}

func printPatient(w io.Writer, p clinicapi.Patient) {
	fmt.Fprintln(w, headerStyle.Render(p.FullName))
	rows := [][]string{
		{"Patient ID", p.ID},
		{"Mobile", p.MobileNumber},
	}
	for _, r := range [][2]string{
		{"Email", p.Email},
		{"Date of birth", p.DateOfBirth},
		{"Gender", p.Gender},
		{"Alternate", p.AlternateNumber},
		{"Occupation", p.Occupation},
		{"Customer type", p.CustomerType},
		{"Hospital", p.HospitalName},
		{"OP/IP number", p.OPIPNumber},
	} {
		if r[1] != "" {
			rows = append(rows, []string{r[0], r[1]})
		}
	}
	fmt.Fprintln(w, table.New().Border(lipgloss.HiddenBorder()).Rows(rows...).String())
}

func printCatalogs(w io.Writer, c intake.Catalogs) {
	section := func(title string, headers []string, rows [][]string) {
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%d)", title, len(rows))))
		if len(rows) == 0 {
			fmt.Fprintln(w, "  none")
			return
		}
		fmt.Fprintln(w, table.New().Border(lipgloss.NormalBorder()).Headers(headers...).Rows(rows...).String())
	}

	var rows [][]string
	for _, a := range c.Audiologists {
		rows = append(rows, []string{a.ID, a.Name})
	}
	section("Audiologists", []string{"ID", "Name"}, rows)

	rows = nil
	for _, d := range c.Diagnostics {
		rows = append(rows, []string{d.ID, d.Name, strconv.FormatFloat(d.Price, 'f', -1, 64)})
	}
	section("Procedures", []string{"ID", "Name", "Price"}, rows)

	rows = nil
	for _, d := range c.Doctors {
		rows = append(rows, []string{d.ID, d.Name, d.Phone})
	}
	section("Doctors", []string{"ID", "Name", "Phone"}, rows)

	rows = nil
	for _, h := range c.Hospitals {
		rows = append(rows, []string{h.ID, h.Name})
	}
	section("Hospitals", []string{"ID", "Name"}, rows)
}
