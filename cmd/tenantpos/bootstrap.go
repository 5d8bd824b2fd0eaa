package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	oteladapter "github.com/neomorfeo/tenantpos/internal/adapter/otel"
	"github.com/neomorfeo/tenantpos/internal/adapter/sqlite"
	"github.com/neomorfeo/tenantpos/internal/config"
	"github.com/neomorfeo/tenantpos/internal/domain"
)

type bootstrapInput struct {
	TenantName  string
	TenantSlug  string
	PrincipalID string
	Email       string
	DisplayName string
}

var bootstrapIn bootstrapInput

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the platform tenant and its first superAdmin",
	Long: `bootstrap creates the platform tenant (if missing) and grants the given
principal the superAdmin role in it. Running it again is harmless.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		specs, err := config.Process()
		if err != nil {
			return err
		}

		db, err := oteladapter.OpenDB(specs.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		store, err := sqlite.NewFromDB(db)
		if err != nil {
			return err
		}

		tenant, err := bootstrap(cmd.Context(), store, bootstrapIn)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "superAdmin %s ready in tenant %s (%s)\n", bootstrapIn.PrincipalID, tenant.Slug, tenant.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)

	bootstrapCmd.Flags().StringVar(&bootstrapIn.TenantName, "tenant-name", "Platform", "Platform tenant display name")
	bootstrapCmd.Flags().StringVar(&bootstrapIn.TenantSlug, "tenant-slug", "platform", "Platform tenant slug")
	bootstrapCmd.Flags().StringVar(&bootstrapIn.PrincipalID, "principal-id", "", "Identity subject of the superAdmin")
	bootstrapCmd.Flags().StringVar(&bootstrapIn.Email, "email", "", "superAdmin email")
	bootstrapCmd.Flags().StringVar(&bootstrapIn.DisplayName, "name", "", "superAdmin display name")

	_ = bootstrapCmd.MarkFlagRequired("principal-id")
	_ = bootstrapCmd.MarkFlagRequired("email")
}

func bootstrap(ctx context.Context, store *sqlite.Store, in bootstrapInput) (domain.Tenant, error) {
	tenant, err := store.Tenants.GetBySlug(ctx, in.TenantSlug)
	if errors.Is(err, domain.ErrTenantNotFound) {
		id, idErr := uuid.NewV7()
		if idErr != nil {
			return domain.Tenant{}, fmt.Errorf("generating tenant id: %w", idErr)
		}
		tenant = domain.NewTenant(id.String(), in.TenantName, in.TenantSlug, "platform")
		err = store.Tenants.Create(ctx, tenant)
	}
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("platform tenant: %w", err)
	}

	now := time.Now().UTC()
	if err := store.Principals.Register(ctx, domain.Principal{
		ID:          in.PrincipalID,
		Email:       in.Email,
		DisplayName: in.DisplayName,
		CreatedAt:   now,
	}); err != nil {
		return domain.Tenant{}, fmt.Errorf("principal: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("generating membership id: %w", err)
	}
	err = store.Memberships.Create(ctx, domain.Membership{
		ID:          id.String(),
		PrincipalID: in.PrincipalID,
		TenantID:    tenant.ID,
		Role:        domain.RoleSuperAdmin,
		CreatedAt:   now,
	})
	var conflict *domain.MembershipConflictError
	if err != nil && !errors.As(err, &conflict) {
		return domain.Tenant{}, fmt.Errorf("membership: %w", err)
	}

	return tenant, nil
}
