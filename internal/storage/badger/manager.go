package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/refero/internal/common"
	"github.com/ternarybob/refero/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db       *BadgerDB
	template interfaces.TemplateStorage
	report   interfaces.ReportStorage
	logger   arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:       db,
		template: NewTemplateStorage(db, logger),
		report:   NewReportStorage(db, logger),
		logger:   logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// TemplateStorage returns the Template storage interface
func (m *Manager) TemplateStorage() interfaces.TemplateStorage {
	return m.template
}

// ReportStorage returns the Report storage interface
func (m *Manager) ReportStorage() interfaces.ReportStorage {
	return m.report
}

// Close closes the underlying database
func (m *Manager) Close() error {
	m.logger.Debug().Msg("Closing Badger storage manager")
	return m.db.Close()
}
