package storage

// Config holds configuration for the storage provider.
type Config struct {
	// Driver selects the backend implementation: "aws" or "minio".
	Driver string `mapstructure:"driver" default:"aws"`
	// Endpoint is the URL of an S3-compatible service. Empty means the AWS endpoint for Region.
	Endpoint string `mapstructure:"endpoint" default:""`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"" env:"aws_access_key_id,AWS_ACCESS_KEY_ID"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"" env:"aws_secret_access_key,AWS_SECRET_ACCESS_KEY"`
	// SessionToken is the optional token for temporary credentials.
	SessionToken string `mapstructure:"session_token" default:"" env:"aws_session_token,AWS_SESSION_TOKEN"`
	// Region is the location of the buckets (e.g., us-west-2).
	Region string `mapstructure:"region" default:"us-west-2" env:"region,AWS_REGION"`
	// Partition is the ARN partition used in policy documents (aws, aws-cn, aws-us-gov).
	Partition string `mapstructure:"partition" default:"aws"`
	// UseSSL indicates whether to use SSL/TLS for custom endpoints.
	UseSSL bool `mapstructure:"use_ssl" default:"true"`
	// ForcePathStyle addresses buckets as path segments instead of virtual hosts.
	ForcePathStyle bool `mapstructure:"force_path_style" default:"false"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

const (
	DriverAWS   = "aws"
	DriverMinio = "minio"
)

// IsValidDriver checks if the configured driver is supported.
func (c Config) IsValidDriver() bool {
	switch c.Driver {
	case DriverAWS, DriverMinio:
		return true
	default:
		return false
	}
}
