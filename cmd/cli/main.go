package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gastos-cli",
		Short: "Gastos CLI tool",
		Long:  `A command line interface for interacting with the Gastos API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Gastos API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(membersCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(expenseCmd())
	rootCmd.AddCommand(sharesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func membersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "List household members",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/members", nil)
		},
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List expense categories",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/categories", nil)
		},
	}
}

func expenseCmd() *cobra.Command {
	expenseCmd := &cobra.Command{
		Use:   "expense",
		Short: "Expense operations",
	}

	var (
		description  string
		amount       string
		date         string
		category     string
		payerID      int64
		paymentType  string
		installments int
	)

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an expense",
		Run: func(cmd *cobra.Command, args []string) {
			body := map[string]any{
				"description":  description,
				"amount":       amount,
				"date":         date,
				"category":     category,
				"payerId":      payerID,
				"paymentType":  paymentType,
				"installments": installments,
			}
			doRequest(http.MethodPost, "/api/v1/expenses", body)
		},
	}
	addCmd.Flags().StringVar(&description, "description", "", "Expense description")
	addCmd.Flags().StringVar(&amount, "amount", "", "Expense amount")
	addCmd.Flags().StringVar(&date, "date", "", "Expense date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&category, "category", "", "Expense category")
	addCmd.Flags().Int64Var(&payerID, "payer", 0, "Paying member id")
	addCmd.Flags().StringVar(&paymentType, "payment-type", "debit", "Payment type (debit or credit)")
	addCmd.Flags().IntVar(&installments, "installments", 1, "Number of installments (credit only)")

	getCmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Get an expense by id",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/expenses/"+args[0], nil)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list [year] [month]",
		Short: "List a month's expenses",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, fmt.Sprintf("/api/v1/expenses/%s/%s", args[0], args[1]), nil)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an expense (and its later installments)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodDelete, "/api/v1/expenses/"+args[0], nil)
		},
	}

	expenseCmd.AddCommand(addCmd, getCmd, listCmd, deleteCmd)

	return expenseCmd
}

func sharesCmd() *cobra.Command {
	sharesCmd := &cobra.Command{
		Use:   "shares",
		Short: "Monthly balance operations",
	}

	getCmd := &cobra.Command{
		Use:   "get [year] [month]",
		Short: "Show a month's expenses and balances",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, fmt.Sprintf("/api/v1/shares/%s/%s", args[0], args[1]), nil)
		},
	}

	settleCmd := &cobra.Command{
		Use:   "settle [year] [month]",
		Short: "Settle a month, freezing its balances",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, fmt.Sprintf("/api/v1/shares/%s/%s/settle", args[0], args[1]), nil)
		},
	}

	recalculateCmd := &cobra.Command{
		Use:   "recalculate [year] [month]",
		Short: "Recompute a month's balances from its expenses",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, fmt.Sprintf("/api/v1/shares/%s/%s/recalculate", args[0], args[1]), nil)
		},
	}

	sharesCmd.AddCommand(getCmd, settleCmd, recalculateCmd)

	return sharesCmd
}

func doRequest(method, path string, body map[string]any) {
	client := &http.Client{Timeout: timeout}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(data))
		os.Exit(1)
	}

	printJSON(data)
}

func printJSON(data []byte) {
	if len(data) == 0 {
		fmt.Println("OK")
		return
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		fmt.Println(string(data))
		return
	}

	fmt.Println(buf.String())
}
