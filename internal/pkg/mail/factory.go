package mail

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

const (
	DriverSMTP     = "smtp"
	DriverSES      = "ses"
	DriverDisabled = "disabled"
)

// Config selects and configures a driver.
type Config struct {
	Driver string
	From   string
	SMTP   SMTPConfig

	SESRegion          string
	SESAccessKeyID     string
	SESSecretAccessKey string
}

// NewFromDriver returns nil, nil for the disabled driver so callers can treat
// email as an unconfigured channel.
func NewFromDriver(ctx context.Context, cfg Config) (Mail, error) {
	switch cfg.Driver {
	case "", DriverDisabled:
		return nil, nil //nolint:nilnil // disabled is not an error
	case DriverSMTP:
		smtpCfg := cfg.SMTP
		if smtpCfg.From == "" {
			smtpCfg.From = cfg.From
		}
		sender, err := NewSMTP(smtpCfg)
		if err != nil {
			return nil, err
		}
		return sender, nil
	case DriverSES:
		opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.SESRegion)}
		if cfg.SESAccessKeyID != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.SESAccessKeyID, cfg.SESSecretAccessKey, ""),
			))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return NewSES(ses.NewFromConfig(awsCfg), cfg.From), nil
	default:
		return nil, fmt.Errorf("mail: unsupported driver %q", cfg.Driver)
	}
}
