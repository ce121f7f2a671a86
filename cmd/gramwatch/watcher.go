package main

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"gramfold/pkg/gram"
	"gramfold/pkg/normalize"
)

// event is one output line: a kind tag plus exactly one payload.
type event struct {
	Kind     string              `json:"kind"`
	Message  *gram.Message       `json:"message,omitempty"`
	Deleted  []gram.Message      `json:"deleted,omitempty"`
	Callback *gram.CallbackQuery `json:"callback,omitempty"`
}

// watcher folds dispatcher updates through the normalizer and prints one
// JSON event per line. A failed normalization is logged and swallowed so one
// malformed update never stops the stream.
type watcher struct {
	normalizer *normalize.MessageNormalizer
	replyDepth int
	logger     *zap.Logger

	mu  sync.Mutex
	out *json.Encoder
}

func (w *watcher) register(dispatcher tg.UpdateDispatcher) {
	dispatcher.OnNewMessage(func(ctx context.Context, e tg.Entities, update *tg.UpdateNewMessage) error {
		w.emitMessage(ctx, "message_new", update.Message, e)
		return nil
	})
	dispatcher.OnNewChannelMessage(func(ctx context.Context, e tg.Entities, update *tg.UpdateNewChannelMessage) error {
		w.emitMessage(ctx, "message_new", update.Message, e)
		return nil
	})
	dispatcher.OnEditMessage(func(ctx context.Context, e tg.Entities, update *tg.UpdateEditMessage) error {
		w.emitMessage(ctx, "message_edit", update.Message, e)
		return nil
	})
	dispatcher.OnEditChannelMessage(func(ctx context.Context, e tg.Entities, update *tg.UpdateEditChannelMessage) error {
		w.emitMessage(ctx, "message_edit", update.Message, e)
		return nil
	})
	dispatcher.OnDeleteMessages(func(ctx context.Context, e tg.Entities, update *tg.UpdateDeleteMessages) error {
		w.emit(event{Kind: "message_delete", Deleted: normalize.NormalizeDeleted(update.Messages, 0)})
		return nil
	})
	dispatcher.OnDeleteChannelMessages(func(ctx context.Context, e tg.Entities, update *tg.UpdateDeleteChannelMessages) error {
		w.emit(event{Kind: "message_delete", Deleted: normalize.NormalizeDeleted(update.Messages, update.ChannelID)})
		return nil
	})
	dispatcher.OnBotCallbackQuery(func(ctx context.Context, e tg.Entities, update *tg.UpdateBotCallbackQuery) error {
		query, err := w.normalizer.NormalizeCallbackQuery(ctx, update, e)
		if err != nil {
			w.logger.Warn("drop callback query", zap.Int64("query_id", update.QueryID), zap.Error(err))
			return nil
		}
		w.emit(event{Kind: "callback_query", Callback: query})
		return nil
	})
	dispatcher.OnInlineBotCallbackQuery(func(ctx context.Context, e tg.Entities, update *tg.UpdateInlineBotCallbackQuery) error {
		query, err := w.normalizer.NormalizeInlineCallbackQuery(update, e)
		if err != nil {
			w.logger.Warn("drop inline callback query", zap.Int64("query_id", update.QueryID), zap.Error(err))
			return nil
		}
		w.emit(event{Kind: "callback_query", Callback: query})
		return nil
	})
}

func (w *watcher) emitMessage(ctx context.Context, kind string, msg tg.MessageClass, e tg.Entities) {
	normalized, err := w.normalizer.Normalize(ctx, msg, e, w.replyDepth)
	if err != nil {
		w.logger.Warn("drop message", zap.Int("message_id", msg.GetID()), zap.Error(err))
		return
	}
	w.emit(event{Kind: kind, Message: normalized})
}

func (w *watcher) emit(ev event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.out.Encode(ev); err != nil {
		w.logger.Error("write event", zap.Error(err))
	}
}
