package models

// Form field names shared by validation and the customer form.
const (
	FieldFirstName  = "firstName"
	FieldLastName   = "lastName"
	FieldEmail      = "email"
	FieldMobile     = "mobile"
	FieldAddress    = "address"
	FieldPostalCode = "postalCode"
	FieldFloorUnit  = "floorUnit"
	FieldCondoName  = "condoName"
	FieldLobbyTower = "lobbyTower"
	FieldRegion     = "region"

	FieldSpecialInstructions = "specialInstructions"
)

// Address is a Singapore service address.
type Address struct {
	BlockStreet string `bson:"block_street" json:"blockStreet"`
	PostalCode  string `bson:"postal_code" json:"postalCode"`
	FloorUnit   string `bson:"floor_unit,omitempty" json:"floorUnit,omitempty"`
	CondoName   string `bson:"condo_name,omitempty" json:"condoName,omitempty"`
	LobbyTower  string `bson:"lobby_tower,omitempty" json:"lobbyTower,omitempty"`
	Region      string `bson:"region,omitempty" json:"region,omitempty"`
}

// CustomerInfo is the identity and address captured by the customer step.
type CustomerInfo struct {
	FirstName           string  `bson:"first_name" json:"firstName"`
	LastName            string  `bson:"last_name" json:"lastName"`
	Email               string  `bson:"email" json:"email"`
	Phone               string  `bson:"phone" json:"phone"` // 8 digits, no formatting
	Address             Address `bson:"address" json:"address"`
	SpecialInstructions string  `bson:"special_instructions,omitempty" json:"specialInstructions,omitempty"`
}

// FullName joins first and last name.
func (c CustomerInfo) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// ValidationState is the per-field validation result.
type ValidationState struct {
	Touched bool   `json:"touched"`
	Valid   bool   `json:"valid"`
	Error   string `json:"error,omitempty"`
}

// PlaceAddressComponent mirrors one entry of a Places address_components list.
type PlaceAddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// PlaceResult is the place-selected payload of the address autocomplete.
type PlaceResult struct {
	PlaceID           string                  `json:"place_id,omitempty"`
	AddressComponents []PlaceAddressComponent `json:"address_components"`
	FormattedAddress  string                  `json:"formatted_address"`
}
