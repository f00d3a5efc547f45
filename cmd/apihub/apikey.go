package cmd

import (
	"context"
	"fmt"

	"github.com/denmats/apihub/internal/config"
	"github.com/denmats/apihub/internal/db"
	"github.com/denmats/apihub/internal/db/models"
	"github.com/denmats/apihub/internal/db/repository"
	"github.com/denmats/apihub/internal/services/keys"
	"github.com/denmats/apihub/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type ctxKey string

const keysServiceKey ctxKey = "keys_service"

var apiKeyCmd = &cobra.Command{
	Use:   "api-key",
	Short: "Manage API keys from the command line",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		driver, err := db.NewConnection(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		l, err := logger.NewLogger(cfg)
		if err != nil {
			return err
		}

		repo := repository.NewAPIKeyRepository(driver.GetDB())
		svc := keys.NewService(repo, l, cfg.Keys.DefaultUsageLimit)
		cmd.SetContext(context.WithValue(cmd.Context(), keysServiceKey, svc))
		return nil
	},
}

func init() {
	setupAPIKeyCmd(apiKeyCmd)
}

func keysService(cmd *cobra.Command) *keys.Service {
	return cmd.Context().Value(keysServiceKey).(*keys.Service)
}

func setupAPIKeyCmd(cmd *cobra.Command) {
	newAPIKeyCmd := &cobra.Command{
		Use:   "new",
		Short: "Creates a new API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := uuid.Parse(viper.GetString("owner"))
			if err != nil {
				return fmt.Errorf("a valid --owner user id is required: %w", err)
			}

			created, err := keysService(cmd).Create(cmd.Context(), owner, viper.GetString("name"), viper.GetString("type"))
			if err != nil {
				return err
			}

			// Printed once; only the hash is stored.
			fmt.Printf("API key created: %s\n", created.Secret)
			return nil
		},
	}
	newAPIKeyCmd.Flags().String("owner", "", "User id that owns the key")
	newAPIKeyCmd.Flags().String("name", "", "Display name for the key")
	newAPIKeyCmd.Flags().String("type", models.APIKeyTypeSecret, "Key type: secret or public")
	viper.BindPFlags(newAPIKeyCmd.Flags())

	revokeAPIKeyCmd := &cobra.Command{
		Use:   "revoke <key-id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid key id: %w", err)
			}

			owner, err := uuid.Parse(viper.GetString("owner"))
			if err != nil {
				return fmt.Errorf("a valid --owner user id is required: %w", err)
			}

			if err := keysService(cmd).Revoke(cmd.Context(), id, owner); err != nil {
				return err
			}

			fmt.Printf("API key revoked: %s\n", id)
			return nil
		},
	}
	revokeAPIKeyCmd.Flags().String("owner", "", "User id that owns the key")
	viper.BindPFlags(revokeAPIKeyCmd.Flags())

	listAPIKeysCmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := uuid.Parse(viper.GetString("owner"))
			if err != nil {
				return fmt.Errorf("a valid --owner user id is required: %w", err)
			}

			apiKeys, err := keysService(cmd).List(cmd.Context(), owner)
			if err != nil {
				return err
			}

			if len(apiKeys) == 0 {
				fmt.Println("No API keys found")
				return nil
			}

			fmt.Println("API keys:")
			for _, apiKey := range apiKeys {
				fmt.Printf("%s  %s  %s  %d/%d\n", apiKey.ID, apiKey.KeyPreview, apiKey.Name, apiKey.UsageCount, apiKey.UsageLimit)
			}

			return nil
		},
	}
	listAPIKeysCmd.Flags().String("owner", "", "User id that owns the keys")
	viper.BindPFlags(listAPIKeysCmd.Flags())

	apiKeyCmd.AddCommand(newAPIKeyCmd, revokeAPIKeyCmd, listAPIKeysCmd)
}
