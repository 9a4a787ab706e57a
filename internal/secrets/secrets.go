// Package secrets retrieves database credentials from AWS Secrets Manager.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// DBCredentials is the JSON shape stored in the database secret.
type DBCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"dbname"`
}

// FetchDBCredentials reads and parses the secret identified by secretID.
func FetchDBCredentials(ctx context.Context, region, secretID string) (*DBCredentials, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg)
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretID,
	})
	if err != nil {
		return nil, fmt.Errorf("get secret value %q: %w", secretID, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %q has no string payload", secretID)
	}

	var creds DBCredentials
	if err := json.Unmarshal([]byte(*out.SecretString), &creds); err != nil {
		return nil, fmt.Errorf("parse secret %q: %w", secretID, err)
	}
	return &creds, nil
}

// DatabaseURL composes a postgres connection URL from the fetched
// credentials and the configured host, port, and SSL mode.
func (c *DBCredentials) DatabaseURL(host, port, sslMode string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     host + ":" + port,
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}
