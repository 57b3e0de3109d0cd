package repository

import (
	"sync"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	build func() *Repositories
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a repository factory backed by GORM
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		build: func() *Repositories { return NewRepositories(db) },
	}
}

// NewMongoFactory creates a repository factory backed by MongoDB
func NewMongoFactory(db *mongo.Database) *Factory {
	return &Factory{
		build: func() *Repositories { return NewMongoRepositories(db) },
	}
}

// NewStaticFactory wraps already built repositories (tests, tooling).
func NewStaticFactory(repos *Repositories) *Factory {
	return &Factory{
		build: func() *Repositories { return repos },
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = f.build()
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetPaymentRepository returns the payment repository instance
func (f *Factory) GetPaymentRepository() PaymentRepository {
	return f.GetRepositories().Payment
}

// GetWebhookEventRepository returns the webhook event repository instance
func (f *Factory) GetWebhookEventRepository() WebhookEventRepository {
	return f.GetRepositories().WebhookEvent
}

// Global factory instance
var (
	globalFactory *Factory
	factoryMu     sync.Mutex
)

// InitializeFactory sets the global repository factory. The first call wins.
func InitializeFactory(f *Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	if globalFactory == nil {
		globalFactory = f
	}
}

// SetGlobalFactory replaces the global factory unconditionally (tests).
func SetGlobalFactory(f *Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	globalFactory = f
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
