package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Monalisa-XD/Academix/internal/repository"
	"github.com/Monalisa-XD/Academix/internal/service"
	"github.com/Monalisa-XD/Academix/pkg/database"
)

func newAdminCmd(a *app) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage console accounts in the roster database",
	}

	var req service.CreateAdminRequest
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an account that can sign in to the console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			db, err := database.NewPostgres(ctx, a.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := repository.EnsureSchema(ctx, db); err != nil {
				return err
			}

			created, err := service.NewAdminService(repository.NewAdminRepository(db), nil, a.logger).CreateAdmin(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", created.Email, created.ID)
			return nil
		},
	}
	add.Flags().StringVar(&req.Name, "name", "", "Display name")
	add.Flags().StringVar(&req.Email, "email", "", "Login email")
	add.Flags().StringVar(&req.Password, "password", "", "Password, at least 8 characters")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("email")
	_ = add.MarkFlagRequired("password")

	admin.AddCommand(add)
	return admin
}
