// Package cloudflare provides a client for interacting with the Cloudflare API.
package cloudflare

import (
	"context"
	"fmt"

	"bitwise74/portal-api/aws"

	"github.com/spf13/viper"
)

// R2Client talks to an R2 bucket through its S3 compatible API
type R2Client struct {
	*aws.S3Client
}

func NewR2(ctx context.Context) (*R2Client, error) {
	c, err := aws.Open(ctx, aws.Options{
		Region:          "auto",
		Bucket:          viper.GetString("cloudflare.bucket"),
		AccessKeyID:     viper.GetString("cloudflare.access_key_id"),
		SecretAccessKey: viper.GetString("cloudflare.secret_access_key"),
		Endpoint:        fmt.Sprintf("https://%s.r2.cloudflarestorage.com", viper.GetString("cloudflare.account_id")),
	})
	if err != nil {
		return nil, err
	}

	return &R2Client{c}, nil
}
