package database

import (
	"context"
	"fmt"
	"time"

	"ceygo/config"
	"ceygo/database/docstore"
	"ceygo/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names shared by the console and the mobile apps.
const (
	UsersCollection          = "users"
	DriverProfilesCollection = "driver_profiles"
	BookingsCollection       = "bookings"
	PlansCollection          = "subscription_plans"
	SubscriptionsCollection  = "subscriptions"
	BankTransfersCollection  = "bank_transfers"
	NotificationsCollection  = "notifications"
	SettingsCollection       = "app_settings"
)

// MongoClient is the global MongoDB client instance when the mongo backend is selected.
var MongoClient *mongo.Client

// InitDB connects to MongoDB.
func InitDB(ctx context.Context) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	MongoClient = client
	utils.GetLogger().Info("Connected to MongoDB successfully", zap.String("database", config.AppConfig.DatabaseName))
	return client, nil
}

// NewStore opens the document store selected by STORE_BACKEND.
func NewStore(ctx context.Context) (docstore.Store, error) {
	logger := utils.GetLogger()

	switch config.AppConfig.StoreBackend {
	case "memory":
		logger.Warn("Using in-memory document store; data is lost on restart")
		return docstore.NewMemoryStore(), nil

	case "mongo":
		client, err := InitDB(ctx)
		if err != nil {
			return nil, err
		}
		store := docstore.NewMongoStore(client, config.AppConfig.DatabaseName)
		if err := store.EnsureIndexes(ctx, mongoIndexes); err != nil {
			logger.Warn("Failed to ensure MongoDB indexes", zap.Error(err))
		}
		return store, nil

	case "firestore", "":
		app, err := utils.FirebaseInit(ctx)
		if err != nil {
			return nil, err
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create Firestore client: %w", err)
		}
		logger.Info("Connected to Firestore successfully")
		return docstore.NewFirestoreStore(client), nil

	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", config.AppConfig.StoreBackend)
	}
}

var mongoIndexes = map[string][]string{
	UsersCollection:          {"role", "createdAt"},
	DriverProfilesCollection: {"documents.isVerified", "updatedAt"},
	BookingsCollection:       {"status", "createdAt"},
	PlansCollection:          nil,
	SubscriptionsCollection:  {"driverId", "createdAt"},
	BankTransfersCollection:  {"status", "createdAt"},
	NotificationsCollection:  {"userId"},
	SettingsCollection:       nil,
}
