package shipping

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/LArkema/dctransistor-project/internal/config"
	"github.com/LArkema/dctransistor-project/internal/modules/ledger"
	"github.com/LArkema/dctransistor-project/internal/notify"
	"github.com/LArkema/dctransistor-project/internal/storage"
)

// LabelInput carries the recipient and receipt data needed to generate one
// shipping label for an already-recorded order.
type LabelInput struct {
	OrderID string

	Name        string
	Email       string
	ShippoEmail string // set only with "Yes" sharing consent

	ReceiptNumber string
	ReceiptURL    string

	ShippingMethod string

	Street1 string
	Street2 string
	City    string
	State   string
	Zip     string
	Country string
}

type LabelService struct {
	store    ledger.Store
	broker   Broker
	notifier *notify.Notifier

	sender config.SenderAddress
	shippo config.ShippoConfig

	// Optional label PDF archival; nil disables it.
	archive storage.Storage
	http    *http.Client

	logger *slog.Logger
}

func NewLabelService(store ledger.Store, broker Broker, notifier *notify.Notifier, sender config.SenderAddress, shippo config.ShippoConfig) *LabelService {
	return &LabelService{
		store:    store,
		broker:   broker,
		notifier: notifier,
		sender:   sender,
		shippo:   shippo,
		http:     &http.Client{Timeout: 60 * time.Second},
		logger:   slog.Default(),
	}
}

func (s *LabelService) SetLogger(logger *slog.Logger) { s.logger = logger }

// SetArchive enables label PDF archival through the given storage backend.
func (s *LabelService) SetArchive(st storage.Storage) { s.archive = st }

// CreateLabel requests a label transaction from the broker and records the
// outcome in the ledger. A non-SUCCESS broker status writes the ERROR
// sentinel into the label URL column; there is no retry.
func (s *LabelService) CreateLabel(ctx context.Context, in LabelInput) (Transaction, error) {
	token, known := serviceLevelToken(in.ShippingMethod)
	if !known {
		s.logger.ErrorContext(ctx, "invalid shipping method", "order_id", in.OrderID, "method", in.ShippingMethod)
	}

	req := TransactionRequest{
		Shipment: Shipment{
			AddressFrom: senderAddress(s.sender),
			AddressTo: BrokerAddress{
				Name:    in.Name,
				Street1: in.Street1,
				Street2: in.Street2,
				City:    in.City,
				State:   in.State,
				Zip:     in.Zip,
				Country: in.Country,
				Email:   in.ShippoEmail,
			},
			Parcels: []Parcel{boardParcel},
		},
		CarrierAccount:    s.shippo.CarrierAccount,
		ServiceLevelToken: token,
		LabelFileType:     s.shippo.LabelFileType,
	}

	tr, raw, err := s.broker.CreateTransaction(ctx, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "label request failed", "order_id", in.OrderID, "err", err, "response", string(raw))
		if uerr := s.store.Update(ctx, in.OrderID, map[string]any{"label_url": ledger.LabelError}); uerr != nil {
			return Transaction{}, uerr
		}
		return Transaction{}, fmt.Errorf("label request: %w", err)
	}

	if tr.Status != TransactionSuccess {
		s.logger.ErrorContext(ctx, "label transaction not successful", "order_id", in.OrderID, "status", tr.Status, "response", string(raw))
		return tr, s.store.Update(ctx, in.OrderID, map[string]any{"label_url": ledger.LabelError})
	}

	err = s.store.Update(ctx, in.OrderID, map[string]any{
		"label_url":            tr.LabelURL,
		"label_transaction_id": tr.ObjectID,
		"tracking_url":         tr.TrackingURLProvider,
		"pickup_status":        ledger.PickupPending,
	})
	if err != nil {
		return tr, err
	}

	if err := s.notifier.OrderShipped(ctx, notify.ShippedParams{
		To:            in.Email,
		Name:          in.Name,
		ReceiptNumber: in.ReceiptNumber,
		ReceiptURL:    in.ReceiptURL,
		TrackingURL:   tr.TrackingURLProvider,
		TrackingNum:   tr.TrackingNumber,
	}); err != nil {
		s.logger.ErrorContext(ctx, "shipping confirmation email failed", "order_id", in.OrderID, "err", err)
	}

	s.archiveLabel(ctx, in, tr)
	return tr, nil
}

// archiveLabel keeps a copy of the label PDF; failures only log since the
// broker keeps the canonical copy.
func (s *LabelService) archiveLabel(ctx context.Context, in LabelInput, tr Transaction) {
	if s.archive == nil || tr.LabelURL == "" {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tr.LabelURL, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "label archive failed", "order_id", in.OrderID, "err", err)
		return
	}
	res, err := s.http.Do(req)
	if err != nil {
		s.logger.ErrorContext(ctx, "label archive failed", "order_id", in.OrderID, "err", err)
		return
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		s.logger.ErrorContext(ctx, "label archive failed", "order_id", in.OrderID, "status", res.StatusCode)
		return
	}

	put, err := s.archive.Put(ctx, res.Body, storage.PutInput{
		Filename:    in.ReceiptNumber + ".pdf",
		ContentType: "application/pdf",
		Size:        res.ContentLength,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "label archive failed", "order_id", in.OrderID, "err", err)
		return
	}
	s.logger.InfoContext(ctx, "label archived", "order_id", in.OrderID, "key", put.Key)
}

func senderAddress(a config.SenderAddress) BrokerAddress {
	return BrokerAddress{
		Name:          a.Name,
		Company:       a.Company,
		Street1:       a.Street1,
		Street2:       a.Street2,
		City:          a.City,
		State:         a.State,
		Zip:           a.Zip,
		Country:       a.Country,
		Phone:         a.Phone,
		Email:         a.Email,
		IsResidential: a.Residential,
	}
}
