package adapter

import (
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/mateusmacedo/go-bff/pkg/application"
	watermillAdapter "github.com/mateusmacedo/go-bff/pkg/infrastructure/watermill/adapter"
)

// NewGoChannelPubSub cria o transporte em memória do Watermill. Publish só
// retorna depois que todos os assinantes confirmarem a mensagem, o que
// mantém a projeção local consistente com a resposta HTTP.
func NewGoChannelPubSub(logger application.AppLogger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            64,
		BlockPublishUntilSubscriberAck: true,
	}, watermillAdapter.NewWatermillLoggerAdapter(logger))
}

