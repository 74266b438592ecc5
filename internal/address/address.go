package address

// Address is a saved shipping address. Orders copy these fields into a
// snapshot at checkout; editing or deleting an address never changes a
// past order.
type Address struct {
	AddressID    int    `json:"addressId"`
	UserID       int    `json:"userId"`
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	Landmark     string `json:"landmark,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"isDefault"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}
