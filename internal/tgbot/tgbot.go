package tgbot

import (
	"fmt"
	"log/slog"

	"github.com/KotFed0t/networth_dashboard/config"
	"github.com/KotFed0t/networth_dashboard/internal/converter/telebotConverter"
	"github.com/KotFed0t/networth_dashboard/internal/transport/telegram"
	customMW "github.com/KotFed0t/networth_dashboard/internal/transport/telegram/middleware"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type TGBot struct {
	bot          *tele.Bot
	ctrl         *telegram.Controller
	allowedChats []int64
}

func New(cfg *config.Config, ctrl *telegram.Controller) (*TGBot, error) {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		return nil, fmt.Errorf("telegram bot: %w", err)
	}

	return &TGBot{bot: b, ctrl: ctrl, allowedChats: cfg.Telegram.AllowedChats}, nil
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), customMW.Logger())
	if len(b.allowedChats) > 0 {
		b.bot.Use(middleware.Whitelist(b.allowedChats...))
	}

	b.setupRoutes()

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	b.bot.Handle("/start", b.ctrl.Start)
	b.bot.Handle("/summary", b.ctrl.Summary)
	b.bot.Handle("/categories", b.ctrl.Categories)
	b.bot.Handle("/performance", b.ctrl.Performance)
	b.bot.Handle("/export", b.ctrl.Export)

	b.bot.Handle(&tele.Btn{Unique: telebotConverter.PerformanceUnique}, b.ctrl.PerformanceCallback)
}
