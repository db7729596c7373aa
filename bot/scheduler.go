package bot

import (
	"log"
	"sync"
	"time"

	"modplus-bot/model"
	"modplus-bot/scanner"
	"modplus-bot/tasks"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// BotProvider defines the methods the scheduler needs from the Bot.
type BotProvider interface {
	GetConfig() *model.Config
	GetDB() *sqlx.DB
	GetSession() *discordgo.Session
	Done() <-chan struct{}
}

// Scheduler manages all scheduled tasks: the tempban expiry sweep and
// the daily moderation activity report.
type Scheduler struct {
	bot         BotProvider
	wg          sync.WaitGroup
	sweepTicker *time.Ticker
}

// NewScheduler creates a new scheduler.
func NewScheduler(bot BotProvider) *Scheduler {
	return &Scheduler{bot: bot}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	s.wg.Add(2)
	go s.startSweeps()
	go s.startDailyReport()
}

func (s *Scheduler) startSweeps() {
	defer s.wg.Done()

	interval := time.Duration(s.bot.GetConfig().SweepIntervalMins) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	s.sweepTicker = time.NewTicker(interval)
	defer s.sweepTicker.Stop()

	for {
		select {
		case <-s.sweepTicker.C:
			log.Println("Running tempban expiry sweep...")
			scanner.SweepExpiredTempBans(s.bot.GetSession(), s.bot.GetDB())
		case <-s.bot.Done():
			return
		}
	}
}

func (s *Scheduler) startDailyReport() {
	defer s.wg.Done()

	reportHour := s.bot.GetConfig().ReportHour

	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), reportHour, 0, 0, 0, now.Location())
		if !now.Before(next) {
			next = next.Add(24 * time.Hour)
		}

		log.Printf("Next moderation activity report scheduled for: %v", next)
		select {
		case <-time.After(next.Sub(now)):
			tasks.PostActivityReport(s.bot.GetSession(), s.bot.GetDB(), s.bot.GetConfig().LogChannelID, 24*time.Hour)
		case <-s.bot.Done():
			return
		}
	}
}
