package zinc

// Address is the shipping/billing address shape the upstream API expects.
type Address struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2,omitempty"`
	ZipCode      string `json:"zip_code" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Country      string `json:"country" validate:"required"`
}

// Product is a product/quantity pair in a submission.
type Product struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ReturnProduct adds the reason code required on return submissions.
type ReturnProduct struct {
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	ReasonCode string `json:"reason_code"`
}

// Webhooks carries the callback URLs registered with a submission.
type Webhooks struct {
	RequestSucceeded string `json:"request_succeeded"`
	RequestFailed    string `json:"request_failed"`
	TrackingObtained string `json:"tracking_obtained"`
	TrackingUpdated  string `json:"tracking_updated"`
}

// RetailerCredentials funds a credentials-mode order.
type RetailerCredentials struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	TOTP2FAKey string `json:"totp_2fa_key,omitempty"`
}

// PaymentMethod is the card used for a credentials-mode order.
type PaymentMethod struct {
	NameOnCard      string `json:"name_on_card" validate:"required"`
	Number          string `json:"number" validate:"required"`
	SecurityCode    string `json:"security_code" validate:"required"`
	ExpirationMonth int    `json:"expiration_month" validate:"required,min=1,max=12"`
	ExpirationYear  int    `json:"expiration_year" validate:"required"`
	UseGift         bool   `json:"use_gift"`
}

// OrderRequest is the full order submission payload.
type OrderRequest struct {
	IdempotencyKey      string               `json:"idempotency_key"`
	Retailer            string               `json:"retailer"`
	Products            []Product            `json:"products"`
	MaxPrice            int                  `json:"max_price"`
	ShippingMethod      string               `json:"shipping_method"`
	ShippingAddress     Address              `json:"shipping_address"`
	Webhooks            Webhooks             `json:"webhooks"`
	RetailerCredentials *RetailerCredentials `json:"retailer_credentials,omitempty"`
	PaymentMethod       *PaymentMethod       `json:"payment_method,omitempty"`
	BillingAddress      *Address             `json:"billing_address,omitempty"`
	Addax               bool                 `json:"addax,omitempty"`
}

// ReturnRequest is the return submission payload.
type ReturnRequest struct {
	MerchantOrderID string          `json:"merchant_order_id"`
	Products        []ReturnProduct `json:"products"`
	MethodCode      string          `json:"method_code"`
}
