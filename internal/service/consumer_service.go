package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"jewelry-assistant-be/internal/dto"
	"jewelry-assistant-be/internal/repository/unitofwork"
	"jewelry-assistant-be/pkg/embedding"
	"jewelry-assistant-be/pkg/store"
)

// IConsumerService drains the embedding queue: each message names one product
// whose search document must be (re)embedded into the vector index.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedProductMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Embedding product %s", payload.ProductId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	product, err := uow.ProductRepository().FindById(ctx, payload.ProductId)
	if err != nil {
		log.Printf("[ERROR] Failed to get product %s: %v", payload.ProductId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if product == nil {
		// Deleted between publish and consume.
		log.Printf("[WARN] Product not found: %s", payload.ProductId)
		msg.Ack()
		return
	}

	document := BuildProductDocument(product)

	res, err := cs.embeddingProvider.Generate(document, "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to embed product %s: %v", payload.ProductId, err)
		msg.Nack()
		return
	}

	if err := uow.ProductEmbeddingRepository().Upsert(ctx, product.ID, document, res.Embedding.Values); err != nil {
		log.Printf("[ERROR] Failed to store embedding for product %s: %v", payload.ProductId, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Product %s embedded (%d chars)", payload.ProductId, len(document))
	msg.Ack()
}

// BuildProductDocument renders the text the vector index stores for a
// product. Tags ride along so semantic queries like "something elegant for an
// anniversary" land on tagged items.
func BuildProductDocument(p *store.Product) string {
	var tags []string
	tags = append(tags, p.StyleTags...)
	tags = append(tags, p.OccasionTags...)
	tags = append(tags, p.RecipientTags...)
	for _, g := range p.Gemstones {
		if !strings.EqualFold(g, "none") {
			tags = append(tags, g)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s.", p.Name)
	fmt.Fprintf(&b, " Category: %s.", p.Category)
	if p.Metal != "" {
		fmt.Fprintf(&b, " Metal: %s.", p.Metal)
	}
	if p.DesignType != "" {
		fmt.Fprintf(&b, " Design: %s.", p.DesignType)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, " Description: %s.", p.Description)
	}
	if len(tags) > 0 {
		fmt.Fprintf(&b, " Tags: %s.", strings.Join(tags, ", "))
	}
	return b.String()
}
