// internal/models/car.go
package models

// CarStatus là trạng thái bán hàng của một xe.
type CarStatus string

const (
	StatusAvailable   CarStatus = "AVAILABLE"
	StatusSold        CarStatus = "SOLD"
	StatusReserved    CarStatus = "RESERVED"
	StatusMaintenance CarStatus = "MAINTENANCE"
)

// CarStatuses liệt kê các trạng thái theo thứ tự hiển thị trên form.
var CarStatuses = []CarStatus{StatusAvailable, StatusReserved, StatusSold, StatusMaintenance}

// Valid báo trạng thái có thuộc tập cố định hay không.
func (s CarStatus) Valid() bool {
	for _, st := range CarStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type Car struct {
	ID             int64      `json:"id,omitempty"`
	LicensePlate   string     `json:"licensePlate"`
	Model          Model      `json:"model"`
	Color          string     `json:"color"`
	ExpeditionYear int        `json:"expeditionYear"`
	Mileage        int        `json:"mileage"`
	SellingPrice   float64    `json:"sellingPrice"`
	Status         CarStatus  `json:"status"`
	Description    string     `json:"description,omitempty"`
	CreatedOn      string     `json:"createdOn,omitempty"` // ngày ISO, ví dụ "2024-03-01"
	Photos         []CarPhoto `json:"photos,omitempty"`
}

// CarPhoto là một ảnh đã upload của xe. URL có thể là tương đối so với API.
type CarPhoto struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
	IsMain  bool   `json:"isMain"`
}

// MainPhoto trả về ảnh chính, nếu không có thì ảnh đầu tiên.
func (c Car) MainPhoto() (CarPhoto, bool) {
	for _, p := range c.Photos {
		if p.IsMain {
			return p, true
		}
	}
	if len(c.Photos) > 0 {
		return c.Photos[0], true
	}
	return CarPhoto{}, false
}
