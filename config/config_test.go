package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	conf, err := FromEnv(lookupFrom(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "5000", conf.Port)
	assert.Equal(t, DefaultJWTSecret, conf.JWTSecret)
	assert.True(t, conf.UsingDefaultSecret)
	assert.Equal(t, "http://localhost:5000", conf.PublicURL)
	assert.Equal(t, []string{"*"}, conf.CORSOrigins)
	assert.Equal(t, "mongo", conf.MongoDBConfig.Driver)
	assert.Equal(t, "instaseller", conf.MongoDBConfig.Database)
	assert.Equal(t, "local", conf.StorageConfig.Disk)
	assert.Equal(t, int64(10<<20), conf.StorageConfig.MaxUploadBytes)
	assert.Equal(t, 60*time.Second, conf.RedisConfig.TTL)
	assert.False(t, conf.TrustSellerHeader)
}

func TestFromEnvOverrides(t *testing.T) {
	conf, err := FromEnv(lookupFrom(map[string]string{
		"PORT":                "8080",
		"JWT_SECRET":          "s3cret",
		"PUBLIC_URL":          "https://cdn.example.com/",
		"CORS_ORIGINS":        "https://a.example.com, https://b.example.com",
		"DB_DRIVER":           "memory",
		"MAX_UPLOAD_MB":       "2",
		"CATALOG_CACHE_TTL":   "5m",
		"TRUST_SELLER_HEADER": "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", conf.Port)
	assert.Equal(t, "s3cret", conf.JWTSecret)
	assert.False(t, conf.UsingDefaultSecret)
	assert.Equal(t, "https://cdn.example.com", conf.PublicURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, conf.CORSOrigins)
	assert.Equal(t, "memory", conf.MongoDBConfig.Driver)
	assert.Equal(t, int64(2<<20), conf.StorageConfig.MaxUploadBytes)
	assert.Equal(t, 5*time.Minute, conf.RedisConfig.TTL)
	assert.True(t, conf.TrustSellerHeader)
}

func TestFromEnvErrors(t *testing.T) {
	testCases := []struct {
		Name string
		Env  map[string]string
	}{
		{"production without secret", map[string]string{"APP_ENV": "production"}},
		{"bad upload size", map[string]string{"MAX_UPLOAD_MB": "lots"}},
		{"bad ttl", map[string]string{"CATALOG_CACHE_TTL": "soon"}},
		{"bad bool", map[string]string{"TRUST_SELLER_HEADER": "maybe"}},
		{"unknown driver", map[string]string{"DB_DRIVER": "postgres"}},
		{"s3 without bucket", map[string]string{"STORAGE_DISK": "s3"}},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := FromEnv(lookupFrom(tc.Env))
			assert.Error(t, err)
		})
	}
}
