package infra

import (
	"github.com/HavvokLab/solis-cloud/api/soliscloud"
	"github.com/HavvokLab/solis-cloud/config"
	"github.com/HavvokLab/solis-cloud/model"
	"github.com/HavvokLab/solis-cloud/pkg/util"
)

const ConfigCredentialOwner = "config"

func SolisClientOptions(cfg config.SolisCloudConfig) []soliscloud.Option {
	return []soliscloud.Option{
		soliscloud.WithBaseURL(cfg.BaseURL),
		soliscloud.WithRetryCount(cfg.RetryCount),
		soliscloud.WithRetryInterval(cfg.RetryInterval),
		soliscloud.WithTimeout(cfg.Timeout),
	}
}

// ConfigCredential returns the key pair from the soliscloud config section,
// or nil when no key is configured.
func ConfigCredential(cfg config.SolisCloudConfig) *model.SolisCredential {
	if util.IsEmpty(cfg.KeyID) || util.IsEmpty(cfg.KeySecret) {
		return nil
	}

	return &model.SolisCredential{
		KeyID:     cfg.KeyID,
		KeySecret: cfg.KeySecret,
		BaseURL:   cfg.BaseURL,
		Owner:     ConfigCredentialOwner,
	}
}

func NewSolisClient(credential *model.SolisCredential, cfg config.SolisCloudConfig) *soliscloud.SolisClient {
	opts := SolisClientOptions(cfg)
	opts = append(opts, soliscloud.WithBaseURL(credential.BaseURL))
	return soliscloud.NewSolisClient(credential.KeyID, credential.KeySecret, opts...)
}
