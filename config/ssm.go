package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

var (
	once    sync.Once
	loaded  *Config
	loadErr error
)

// LoadFromSSM reads the YAML config from an SSM parameter, once per
// process. Used by the lambda entrypoints where no config file ships with
// the artifact.
func LoadFromSSM(ctx context.Context, paramName string) (*Config, error) {
	once.Do(func() {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			loadErr = fmt.Errorf("load aws config: %w", err)
			return
		}

		client := ssm.NewFromConfig(cfg)

		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(paramName),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			loadErr = fmt.Errorf("get parameter %s: %w", paramName, err)
			return
		}

		parsed, err := parse([]byte(*out.Parameter.Value))
		if err != nil {
			loadErr = fmt.Errorf("unmarshal yaml: %w", err)
			return
		}
		loaded = parsed
	})

	return loaded, loadErr
}
