package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	tele "gopkg.in/telebot.v3"
)

// Notifier forwards meeting notifications to a Telegram chat.
type Notifier struct {
	log    *logrus.Entry
	bot    *tele.Bot
	chatID int64
}

func NewNotifier(log *logrus.Logger, bot *tele.Bot, chatID int64) *Notifier {
	return &Notifier{
		log:    log.WithField("component", "telegram"),
		bot:    bot,
		chatID: chatID,
	}
}

func NewBot(token string) (*tele.Bot, error) {
	config := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(config)
	if err != nil {
		return nil, fmt.Errorf("new bot faild: %w", err)
	}
	return b, nil
}

func (n *Notifier) Notify(_ context.Context, message string, userID string) error {
	if _, err := n.bot.Send(tele.ChatID(n.chatID), fmt.Sprintf("%s (user %s)", message, userID)); err != nil {
		return fmt.Errorf("tg send message faild: %w", err)
	}
	n.log.Debugf("notified chat %d about user %s", n.chatID, userID)
	return nil
}
