package config

type StorageConfig struct {
	Provider  string `yaml:"provider"`
	S3Region  string `yaml:"s3_region"`
	S3Bucket  string `yaml:"s3_bucket"`
	CDNDomain string `yaml:"cdn_domain"`
	LocalPath string `yaml:"local_path"`
	LocalURL  string `yaml:"local_url"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Provider:  getEnv("STORAGE_PROVIDER", "local"),
		S3Region:  getEnv("AWS_S3_REGION", "us-east-1"),
		S3Bucket:  getEnv("AWS_S3_BUCKET", "swiftride-uploads"),
		CDNDomain: getEnv("AWS_CDN_DOMAIN", ""),
		LocalPath: getEnv("STORAGE_LOCAL_PATH", "./uploads"),
		LocalURL:  getEnv("STORAGE_LOCAL_URL", "http://localhost:8000/uploads"),
	}
}
