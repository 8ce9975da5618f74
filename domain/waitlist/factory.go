package waitlist

import (
	"sync"

	"github.com/AryanCoding77/muscle-ai-waitlist/config/router"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/log"
	"gorm.io/gorm"
)

type WaitlistServiceFactory interface {
	CreateService() WaitlistService
	CreateController() *router.RESTController
}

// DefaultWaitlistServiceFactory builds one service and hands the same instance to every
// caller, so the JSON endpoint and the page share a signup counter.
type DefaultWaitlistServiceFactory struct {
	db     *gorm.DB
	logger *log.Logger
	config *ServiceConfig

	once    sync.Once
	service WaitlistService
}

func NewWaitlistServiceFactory(db *gorm.DB, logger *log.Logger, config *ServiceConfig) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		db:     db,
		logger: logger,
		config: config,
	}
}

func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	f.once.Do(func() {
		repository := NewWaitlistRepository(f.db)
		f.service = NewWaitlistService(f.logger, repository, f.config)
	})
	return f.service
}

func (f *DefaultWaitlistServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.CreateService())
}
