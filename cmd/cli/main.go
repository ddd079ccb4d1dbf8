package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/partledger/internal/adapter/http/dto"
	"github.com/iho/partledger/internal/adapter/http/middleware"
	"github.com/iho/partledger/internal/adapter/repository"
	"github.com/iho/partledger/internal/infrastructure/config"
	"github.com/iho/partledger/internal/usecase"
)

var (
	baseURL string
	token   string
	timeout time.Duration

	// bcryptGenerate is swapped in tests.
	bcryptGenerate = bcrypt.GenerateFromPassword
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "partledger",
		Short:         "PartLedger CLI tool",
		Long:          `A command line interface for the spare-part inventory ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the PartLedger API")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("PARTLEDGER_TOKEN"), "Session token (defaults to $PARTLEDGER_TOKEN)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	root.AddCommand(
		loginCmd(),
		partsCmd(),
		stockCmd(),
		ledgerCmd(),
		migrateCmd(),
		userCmd(),
		hashPasswordCmd(),
	)

	return root
}

// apiError is a non-2xx API response.
type apiError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *apiError) Error() string {
	msg := fmt.Sprintf("request failed (status %d): %s", e.Status, e.Body.Error)
	if e.Body.Message != "" {
		msg += ": " + e.Body.Message
	}
	return msg
}

// call sends a JSON request to the API and decodes the response into out.
func call(ctx context.Context, method, path string, in, out any, headers map[string]string) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode}
		if json.Unmarshal(raw, &apiErr.Body) != nil {
			apiErr.Body.Error = string(raw)
		}
		// Inconsistency reports come back as 409 with a full body.
		if out != nil && resp.StatusCode == http.StatusConflict {
			_ = json.Unmarshal(raw, out)
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.LoginResponse
			err := call(cmd.Context(), http.MethodPost, "/api/v1/auth/login",
				dto.LoginRequest{Username: username, Password: password}, &resp, nil)
			if err != nil {
				return err
			}
			fmt.Println(resp.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func partsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parts",
		Short: "Spare part catalog operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List parts with quantity and total value",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListPartsResponse
			if err := call(cmd.Context(), http.MethodGet, "/api/v1/parts", nil, &resp, nil); err != nil {
				return err
			}
			printParts(os.Stdout, resp.Parts)
			return nil
		},
	})

	var (
		category  string
		quantity  int64
		unitPrice string
	)
	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a part to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"name": args[0], "category": category, "quantity": quantity, "unit_price": unitPrice}
			var resp dto.PartResponse
			if err := call(cmd.Context(), http.MethodPost, "/api/v1/parts", req, &resp, nil); err != nil {
				return err
			}
			printJSON(resp)
			return nil
		},
	}
	updateCmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Overwrite category, quantity and unit price of a part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"category": category, "quantity": quantity, "unit_price": unitPrice}
			var resp dto.PartResponse
			if err := call(cmd.Context(), http.MethodPut, "/api/v1/parts/"+url.PathEscape(args[0]), req, &resp, nil); err != nil {
				return err
			}
			printJSON(resp)
			return nil
		},
	}
	for _, c := range []*cobra.Command{addCmd, updateCmd} {
		c.Flags().StringVar(&category, "category", "", "Category")
		c.Flags().Int64Var(&quantity, "quantity", 0, "Quantity on hand")
		c.Flags().StringVar(&unitPrice, "unit-price", "", "Unit price, e.g. 12.50")
		_ = c.MarkFlagRequired("unit-price")
	}

	removeCmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a part that has no stock history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := call(cmd.Context(), http.MethodDelete, "/api/v1/parts/"+url.PathEscape(args[0]), nil, nil, nil); err != nil {
				return err
			}
			fmt.Printf("removed %s\n", args[0])
			return nil
		},
	}

	var limit, offset int
	historyCmd := &cobra.Command{
		Use:   "history NAME",
		Short: "Show stock-in and stock-out entries of a part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/parts/%s/movements?limit=%d&offset=%d", url.PathEscape(args[0]), limit, offset)
			var resp dto.ListMovementsResponse
			if err := call(cmd.Context(), http.MethodGet, path, nil, &resp, nil); err != nil {
				return err
			}
			printJSON(resp)
			return nil
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	historyCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	cmd.AddCommand(addCmd, updateCmd, removeCmd, historyCmd)
	return cmd
}

func stockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Record stock movements",
	}

	for _, direction := range []string{"in", "out"} {
		var (
			date           string
			quantity       int64
			idempotencyKey string
		)
		path := "/api/v1/stock-" + direction

		sub := &cobra.Command{
			Use:   direction + " PART",
			Short: "Record a stock-" + direction + " movement",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				req := dto.StockMovementRequest{Date: date, Quantity: quantity, PartName: args[0]}
				var headers map[string]string
				if idempotencyKey != "" {
					headers = map[string]string{middleware.IdempotencyKeyHeader: idempotencyKey}
				}

				var resp dto.MovementResponse
				if err := call(cmd.Context(), http.MethodPost, path, req, &resp, headers); err != nil {
					return err
				}
				printJSON(resp)
				return nil
			},
		}
		sub.Flags().StringVar(&date, "date", time.Now().Format(dto.DateLayout), "Movement date (YYYY-MM-DD)")
		sub.Flags().Int64Var(&quantity, "quantity", 0, "Units moved")
		sub.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Replay-safe key for retries")
		_ = sub.MarkFlagRequired("quantity")

		cmd.AddCommand(sub)
	}

	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkConsistency(cmd.Context())
		},
	})

	return cmd
}

func checkConsistency(ctx context.Context) error {
	var report dto.ConsistencyResponse
	err := call(ctx, http.MethodGet, "/api/v1/ledger/consistency", nil, &report, nil)

	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict && report.Status != "" {
		printConsistency(os.Stdout, &report)
		return fmt.Errorf("consistency check FAILED: %d mismatched parts", len(report.Mismatches))
	}
	if err != nil {
		return err
	}

	printConsistency(os.Stdout, &report)
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations for the configured STORAGE_DRIVER",
	}

	for _, direction := range []string{"up", "down"} {
		cmd.AddCommand(&cobra.Command{
			Use:   direction,
			Short: "Migrate " + direction,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.LoadStorage()
				if err != nil {
					return err
				}
				return repository.Migrate(cfg, direction)
			},
		})
	}

	return cmd
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage operators (direct database access)",
	}

	var password string
	addCmd := &cobra.Command{
		Use:   "add USERNAME",
		Short: "Create an operator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadStorage()
			if err != nil {
				return err
			}

			store, err := repository.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			authUC := usecase.NewAuthUseCase(store.Users, nil, nil, 0)
			user, err := authUC.CreateUser(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Printf("created user %s\n", user.Username)
			return nil
		},
	}
	addCmd.Flags().StringVar(&password, "password", "", "Password")
	_ = addCmd.MarkFlagRequired("password")

	cmd.AddCommand(addCmd)
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password PASSWORD",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

func printParts(w io.Writer, parts []*dto.PartResponse) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tQUANTITY\tUNIT PRICE\tTOTAL VALUE")
	for _, p := range parts {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			truncate(p.Name, 30), truncate(p.Category, 20), p.Quantity,
			p.UnitPrice.StringFixed(2), p.TotalValue.StringFixed(2))
	}
	tw.Flush()
}

func printConsistency(w io.Writer, report *dto.ConsistencyResponse) {
	fmt.Fprintf(w, "Status: %s\n", report.Status)
	fmt.Fprintf(w, "Parts checked: %d\n", report.PartsChecked)
	if len(report.Mismatches) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PART\tQUANTITY\tEXPECTED\tDIFFERENCE")
	for _, m := range report.Mismatches {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%+d\n", truncate(m.PartName, 30), m.Quantity, m.ExpectedQuantity, m.Difference)
	}
	tw.Flush()
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
