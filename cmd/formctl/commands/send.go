package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"formd/internal/submit"
)

// send: submit a contact form entry through the public intake endpoint.
func sendCmd() *cobra.Command {
	var (
		name        string
		email       string
		phone       string
		subject     string
		message     string
		extraFields []string
		attachments []string
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Submit a contact form entry the way the page does",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			form := submit.Form{
				Name:    name,
				Email:   email,
				Phone:   phone,
				Subject: subject,
				Message: message,
			}
			for _, kv := range extraFields {
				k, v, ok := strings.Cut(kv, "=")
				if !ok || k == "" {
					return fmt.Errorf("invalid --field %q, want key=value", kv)
				}
				if form.Fields == nil {
					form.Fields = map[string]string{}
				}
				form.Fields[k] = v
			}
			for _, p := range attachments {
				f, err := os.Open(p)
				if err != nil {
					return err
				}
				defer f.Close()
				form.Attachments = append(form.Attachments, submit.Attachment{
					Filename: filepath.Base(p),
					Reader:   f,
				})
			}

			res, err := submit.NewClient(apiURL("/api/contact")).Submit(ctx, form)
			if err != nil {
				return err
			}
			if res.Outcome != submit.Success {
				// Same wording the page alerts with.
				return errors.New(res.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "submitted #%d\n", res.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "sender name")
	cmd.Flags().StringVar(&email, "email", "", "sender email address")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&subject, "subject", "", "subject line")
	cmd.Flags().StringVar(&message, "message", "", "message body")
	cmd.Flags().StringArrayVar(&extraFields, "field", nil, "extra form field key=value, repeatable")
	cmd.Flags().StringArrayVar(&attachments, "attach", nil, "file to attach, repeatable")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}
