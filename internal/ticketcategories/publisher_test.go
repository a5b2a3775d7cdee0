package ticketcategories

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCategory() *TicketCategory {
	return &TicketCategory{
		ID:         uuid.New(),
		EventID:    uuid.New(),
		Name:       "VIP",
		Quota:      100,
		Price:      50000,
		SalesStart: time.Date(2025, 1, 12, 2, 0, 0, 0, time.UTC),
		SalesEnd:   time.Date(2025, 1, 12, 10, 0, 0, 0, time.UTC),
	}
}

func TestKafkaChangePublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	category := sampleCategory()
	change := NewChangeEvent(ChangeUpdated, category, testNow)

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got ChangeEvent
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.TicketCategoryID != category.ID || got.Type != ChangeUpdated {
			return errors.New("unexpected payload")
		}
		return nil
	})

	pub := NewKafkaChangePublisherWithProducer(producer, DefaultKafkaPublisherConfig())
	require.NoError(t, pub.Publish(context.Background(), change))
	require.NoError(t, pub.Close())
}

func TestKafkaChangePublisher_PublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaChangePublisherWithProducer(producer, DefaultKafkaPublisherConfig())
	err := pub.Publish(context.Background(), NewChangeEvent(ChangeCreated, sampleCategory(), testNow))

	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestKafkaChangePublisher_Headers(t *testing.T) {
	category := sampleCategory()
	pub := NewKafkaChangePublisherWithProducer(nil, DefaultKafkaPublisherConfig())

	headers := map[string]string{}
	for _, h := range pub.headers(NewChangeEvent(ChangeDeleted, category, testNow)) {
		headers[string(h.Key)] = string(h.Value)
	}

	assert.Equal(t, string(ChangeDeleted), headers["change_type"])
	assert.Equal(t, category.EventID.String(), headers["event_id"])
	assert.Equal(t, category.ID.String(), headers["ticket_category_id"])
	assert.Equal(t, "tiketin-api", headers["producer"])
}

func TestNoopPublisher(t *testing.T) {
	var p ChangePublisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), nil))
	assert.NoError(t, p.Close())
}
