package shipping

import "github.com/LArkema/dctransistor-project/internal/modules/receipt"

// Fixed package dimensions for a boxed board.
var boardParcel = Parcel{
	DistanceUnit: "in",
	Height:       "0.25",
	Length:       "12",
	Width:        "12",
	MassUnit:     "oz",
	Weight:       "7",
}

var serviceLevels = map[string]string{
	receipt.MethodUSPSPriority:     "usps_priority",
	receipt.MethodUSPSFirstClass:   "usps_first",
	receipt.MethodUSPSParcelSelect: "usps_parcel_select",
}

// serviceLevelToken maps the human shipping-method label to the broker's
// service token. Unknown methods map to "" and the label request is still
// submitted; the broker rejects it and the failure lands in the ledger.
func serviceLevelToken(method string) (string, bool) {
	tok, ok := serviceLevels[method]
	return tok, ok
}
