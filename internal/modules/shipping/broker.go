package shipping

import "context"

// Wire types mirror the broker's transaction and pickup APIs.

type BrokerAddress struct {
	Name          string `json:"name"`
	Company       string `json:"company,omitempty"`
	Street1       string `json:"street1"`
	Street2       string `json:"street2,omitempty"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
	Country       string `json:"country"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	IsResidential bool   `json:"is_residential,omitempty"`
}

type Parcel struct {
	DistanceUnit string `json:"distance_unit"`
	Height       string `json:"height"`
	Length       string `json:"length"`
	Width        string `json:"width"`
	MassUnit     string `json:"mass_unit"`
	Weight       string `json:"weight"`
}

type Shipment struct {
	AddressFrom BrokerAddress `json:"address_from"`
	AddressTo   BrokerAddress `json:"address_to"`
	Parcels     []Parcel      `json:"parcels"`
}

type TransactionRequest struct {
	Shipment          Shipment `json:"shipment"`
	CarrierAccount    string   `json:"carrier_account"`
	ServiceLevelToken string   `json:"servicelevel_token"`
	LabelFileType     string   `json:"label_file_type"`
}

type Transaction struct {
	ObjectID            string `json:"object_id"`
	Status              string `json:"status"`
	LabelURL            string `json:"label_url"`
	TrackingNumber      string `json:"tracking_number"`
	TrackingURLProvider string `json:"tracking_url_provider"`
	TrackingStatus      string `json:"tracking_status"`
}

type PickupLocation struct {
	Address              BrokerAddress `json:"address"`
	BuildingLocationType string        `json:"building_location_type"`
	BuildingType         string        `json:"building_type"`
	Instructions         string        `json:"instructions"`
}

type PickupRequest struct {
	CarrierAccount     string         `json:"carrier_account"`
	Location           PickupLocation `json:"location"`
	Transactions       []string       `json:"transactions"`
	RequestedStartTime string         `json:"requested_start_time"`
	RequestedEndTime   string         `json:"requested_end_time"`
	IsTest             bool           `json:"is_test"`
}

type Pickup struct {
	ConfirmationCode string `json:"confirmation_code"`
	ConfirmedEndTime string `json:"confirmed_end_time"`
	Status           string `json:"status"`
}

// Broker status values the workflow branches on.
const (
	TransactionSuccess = "SUCCESS"
	PickupConfirmed    = "CONFIRMED"
	StatusDelivered    = "DELIVERED"
)

type Broker interface {
	CreateTransaction(ctx context.Context, req TransactionRequest) (Transaction, []byte, error)
	GetTransaction(ctx context.Context, objectID string) (Transaction, error)
	SchedulePickup(ctx context.Context, req PickupRequest) (Pickup, []byte, error)
}
