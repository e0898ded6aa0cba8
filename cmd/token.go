package cmd

import (
	"fmt"
	"strings"

	internalApp "github.com/haierkeys/team-notes-service/internal/app"
	pkgapp "github.com/haierkeys/team-notes-service/pkg/app"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type tokenFlags struct {
	config         string
	memberID       string
	organizationID string
	roles          string
	expiry         string
}

func init() {
	tokenEnv := new(tokenFlags)

	// 开发环境代替外部身份提供方签发会话 Token
	var tokenCommand = &cobra.Command{
		Use:   "token --member member_id --org organization_id [--roles admin,member]",
		Short: "Mint a development session token",
		Run: func(cmd *cobra.Command, args []string) {
			if tokenEnv.memberID == "" || tokenEnv.organizationID == "" {
				bootstrapLogger.Error("both --member and --org are required")
				return
			}

			appConfig, _, err := internalApp.LoadConfig(tokenEnv.config)
			if err != nil {
				bootstrapLogger.Error("failed to load config", zap.Error(err))
				return
			}

			tokenConfig := appConfig.GetTokenConfig()
			if tokenEnv.expiry != "" {
				appConfig.Security.TokenExpiry = tokenEnv.expiry
				tokenConfig.Expiry = appConfig.GetTokenExpiry()
			}

			var roles []string
			for _, r := range strings.Split(tokenEnv.roles, ",") {
				if r = strings.TrimSpace(r); r != "" {
					roles = append(roles, r)
				}
			}

			tm := pkgapp.NewTokenManager(tokenConfig)
			token, err := tm.Generate(tokenEnv.memberID, tokenEnv.organizationID, roles)
			if err != nil {
				bootstrapLogger.Error("failed to generate token", zap.Error(err))
				return
			}

			fmt.Println(token)
		},
	}

	rootCmd.AddCommand(tokenCommand)
	fs := tokenCommand.Flags()
	fs.StringVarP(&tokenEnv.config, "config", "c", "config/config.yaml", "config file")
	fs.StringVar(&tokenEnv.memberID, "member", "", "member id")
	fs.StringVar(&tokenEnv.organizationID, "org", "", "organization id")
	fs.StringVar(&tokenEnv.roles, "roles", "member", "comma separated roles")
	fs.StringVar(&tokenEnv.expiry, "expiry", "", "token expiry, e.g. 1d, 2h")
}
