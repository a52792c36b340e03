// internal/models/brand.go
package models

// Brand là hãng xe, ví dụ "BMW".
type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Model thuộc về đúng một Brand. Tên hãng được API trả về kèm theo khi đọc.
type Model struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Brand Brand  `json:"brand"`
}

// DisplayName ghép tên hãng và tên model, ví dụ "BMW Serie 3".
func (m Model) DisplayName() string {
	if m.Brand.Name == "" {
		return m.Name
	}
	if m.Name == "" {
		return m.Brand.Name
	}
	return m.Brand.Name + " " + m.Name
}
