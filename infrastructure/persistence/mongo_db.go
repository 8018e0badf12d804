package persistence

import (
	"fmt"
	"net/url"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoURI builds a mongodb:// URI. Credentials are optional.
func MongoURI(host, port, user, password string) string {
	u := &url.URL{Scheme: "mongodb", Host: fmt.Sprintf("%s:%s", host, port), Path: "/"}
	if user != "" {
		u.User = url.UserPassword(user, password)
	}
	return u.String()
}

// NewMongoDb creates a client for the generation log. The caller pings it.
func NewMongoDb(host, port, user, password, name string) (*mongo.Client, error) {
	if host == "" {
		return nil, fmt.Errorf("mongo host not configured")
	}
	appName := "scriptgo"
	if name != "" {
		appName = name
	}
	opts := options.Client().ApplyURI(MongoURI(host, port, user, password)).SetAppName(appName)
	return mongo.Connect(opts)
}
