package config

import (
	"fmt"
	"strings"
)

// Require reports every listed env key whose value is empty.
func (c Config) Require(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if c.lookup(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c Config) lookup(key string) string {
	switch key {
	case "SERVICE_NAME":
		return c.ServiceName
	case "DATABASE_URL":
		return c.DatabaseURL
	case "JWT_SECRET":
		return string(c.JWTSecret)
	case "AUTH_URL":
		return c.AuthHTTPURL
	case "CATALOG_URL":
		return c.CatalogHTTPURL
	case "CART_URL":
		return c.CartHTTPURL
	case "ES_URL":
		return c.ESURL
	case "KAFKA_BROKERS":
		return strings.Join(c.KafkaBrokers, ",")
	}
	return ""
}
