package logger

import (
	"log"

	log_model "tms-backend/models/log"
	"tms-backend/types"

	"gorm.io/gorm"
)

// AsyncLogger persists tracking access-log entries to the database without
// blocking the request path.
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.AccessLogEntry
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.AccessLogEntry, 100), // Buffered channel to hold log entries
	}
}

// ProcessLog drains the channel and writes access-log rows; run it in its
// own goroutine.
func (logger *AsyncLogger) ProcessLog() {
	log.Println("Starting asynchronous access logger...")

	for entry := range logger.channel {
		dbLog := log_model.AccessLog{
			OrganizationID: entry.OrganizationID,
			TokenType:      entry.TokenType,
			TargetCode:     entry.TargetCode,
			Device:         entry.Device,
			OS:             entry.OS,
			Browser:        entry.Browser,
			Referrer:       entry.Referrer,
			IP:             entry.IP,
			CreatedAt:      entry.CreatedAt,
		}

		if err := logger.db.Create(&dbLog).Error; err != nil {
			log.Printf("Failed to insert access log entry: %v", err)
		}
	}
}

// Log pushes an access-log entry into the channel
func (logger *AsyncLogger) Log(entry types.AccessLogEntry) {
	logger.channel <- entry
}
