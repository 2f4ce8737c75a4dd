package dto

/**
  {
      "balance": "10.00"
  }
*/

type Balance struct {
	Balance string `json:"balance"`
}

type Reward struct {
	Method  string `json:"method"`
	Contact string `json:"contact"`
}

func (r Reward) IsValid() bool {
	return (r.Method == "whatsapp" || r.Method == "telegram") && r.Contact != ""
}
