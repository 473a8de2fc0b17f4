// grantctl 發放服務的管理工具
//
// 直接以服務憑證檔案存取資料庫與簽章金鑰：
//
//	grantctl role <UID> [role]                          指派個人資料角色（預設 staff）
//	grantctl claims <UID> [set|remove] [--role ROLE]    設定或清除自訂宣告
//	grantctl token <UID> [--ttl DURATION]               簽發內嵌目前宣告的憑證
//
// 憑證檔案路徑來自 --credentials，其次是 GRANT_APPLICATION_CREDENTIALS。
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackyeh168/point_grant/src/internal/application/admin"
	"github.com/jackyeh168/point_grant/src/internal/infrastructure/auth"
	"github.com/jackyeh168/point_grant/src/internal/infrastructure/config"
	"github.com/jackyeh168/point_grant/src/internal/infrastructure/eventlog"
	"github.com/jackyeh168/point_grant/src/internal/infrastructure/logging"
	"github.com/jackyeh168/point_grant/src/internal/infrastructure/persistence"
	"github.com/spf13/pflag"
	"gorm.io/gorm"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const usageText = `usage: grantctl [--credentials PATH] <command> [args]

commands:
  role <UID> [role]                        assign the stored profile role (default: staff)
  claims <UID> [set|remove] [--role ROLE]  set or clear the custom role claim (default: set staff)
  token <UID> [--ttl DURATION]             mint a bearer token carrying the current claim
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	credentials string
	role        string
	ttl         time.Duration
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	flagSet := pflag.NewFlagSet("grantctl", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&opts.credentials, "credentials", "", "path to the service credential file")
	flagSet.StringVar(&opts.role, "role", "staff", "role for the claims command (staff|admin)")
	flagSet.DurationVar(&opts.ttl, "ttl", 0, "token lifetime for the token command (default from credentials)")
	help := flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		fmt.Fprintf(stderr, "error: %v\n\n%s", err, usageText)
		return exitUsage
	}
	if *help {
		fmt.Fprint(stdout, usageText)
		return exitOK
	}

	positional := flagSet.Args()
	if len(positional) < 2 {
		fmt.Fprint(stderr, usageText)
		return exitUsage
	}
	command, uid, rest := positional[0], positional[1], positional[2:]
	switch command {
	case "role", "claims":
		if len(rest) > 1 {
			fmt.Fprint(stderr, usageText)
			return exitUsage
		}
	case "token":
		if len(rest) > 0 {
			fmt.Fprint(stderr, usageText)
			return exitUsage
		}
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", command, usageText)
		return exitUsage
	}

	path, err := config.CredentialsPath(opts.credentials)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n\n%s", err, usageText)
		return exitFailure
	}
	creds, err := config.LoadCredentials(path)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n\n%s", err, usageText)
		return exitFailure
	}

	if err := execute(ctx, creds, command, uid, rest, opts, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func execute(
	ctx context.Context,
	creds *config.Credentials,
	command, uid string,
	rest []string,
	opts options,
	stdout, stderr io.Writer,
) error {
	db, err := persistence.Open(ctx, persistence.Options{
		Driver:       creds.Database.Driver,
		DSN:          creds.Database.DSN,
		MaxOpenConns: creds.Database.MaxOpenConns,
	})
	if err != nil {
		return err
	}
	defer func() { _ = persistence.Close(db) }()
	if err := persistence.Migrate(db); err != nil {
		return err
	}

	switch command {
	case "role":
		return assignRole(ctx, db, uid, optional(rest), stdout, stderr)
	case "claims":
		return setClaims(ctx, db, uid, optional(rest), opts.role, stdout)
	case "token":
		return issueToken(ctx, db, creds, uid, opts.ttl, stdout)
	}
	return errors.New("unreachable command")
}

func optional(rest []string) string {
	if len(rest) == 0 {
		return ""
	}
	return rest[0]
}

func assignRole(ctx context.Context, db *gorm.DB, uid, role string, stdout, stderr io.Writer) error {
	logger, err := logging.New("info", "text", stderr)
	if err != nil {
		return err
	}
	uc := admin.NewAssignRoleUseCase(
		persistence.NewAccountRepository(db),
		persistence.NewGORMTransactionManager(db),
		eventlog.NewPublisher(logger),
		logger,
	)
	result, err := uc.Execute(ctx, admin.AssignRoleCommand{UID: uid, Role: role})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Set role=%s for %s (previous: %s, created: %t)\n",
		result.Role, result.UID, result.Previous, result.Created)
	return nil
}

func setClaims(ctx context.Context, db *gorm.DB, uid, action, role string, stdout io.Writer) error {
	uc := admin.NewSetClaimsUseCase(
		persistence.NewClaimStore(db),
		persistence.NewGORMTransactionManager(db),
	)
	result, err := uc.Execute(ctx, admin.SetClaimsCommand{UID: uid, Action: action, Role: role})
	if err != nil {
		return err
	}
	if result.Action == admin.ClaimActionRemove {
		fmt.Fprintf(stdout, "Removed custom claims for %s\n", result.UID)
		return nil
	}
	fmt.Fprintf(stdout, "Set custom claim role=%s for %s. The user must sign in again to refresh their token.\n",
		result.Claim.Role, result.UID)
	return nil
}

func issueToken(ctx context.Context, db *gorm.DB, creds *config.Credentials, uid string, ttl time.Duration, stdout io.Writer) error {
	tokens, err := auth.NewTokenService(auth.Options{
		SigningKey: []byte(creds.Auth.SigningKey),
		Issuer:     creds.Auth.Issuer,
		Audience:   creds.Auth.Audience,
	})
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = creds.Auth.TokenTTL
	}

	uc := admin.NewIssueTokenUseCase(persistence.NewClaimStore(db), tokens)
	result, err := uc.Execute(ctx, admin.IssueTokenCommand{UID: uid, TTL: ttl})
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, result.Token)
	return nil
}
