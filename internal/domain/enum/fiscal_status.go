package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// FiscalStatus tracks whether an order has been certified by the
// fiscal authority. It is the only mutable part of a persisted order
// besides the fiscal error text.
type FiscalStatus int

const (
	FiscalStatusNotFiscalized FiscalStatus = 0
	FiscalStatusFiscalized    FiscalStatus = 1
	FiscalStatusError         FiscalStatus = 2
)

func (s FiscalStatus) String() string {
	return [...]string{"not_fiscalized", "fiscalized", "fiscal_error"}[s]
}

func (s FiscalStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *FiscalStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = FiscalStatus(i)
		return nil
	}
	switch str {
	case "not_fiscalized":
		*s = FiscalStatusNotFiscalized
	case "fiscalized":
		*s = FiscalStatusFiscalized
	case "fiscal_error":
		*s = FiscalStatusError
	}
	return nil
}

func (s FiscalStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *FiscalStatus) Scan(value interface{}) error {
	if value == nil {
		*s = FiscalStatusNotFiscalized
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = FiscalStatus(v)
	case int:
		*s = FiscalStatus(v)
	}
	return nil
}
