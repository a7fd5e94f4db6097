package dto

// MetaSync (MT5 bridge over RapidAPI) wire types.

type MetaSyncConnectRequest struct {
	Login    int64  `json:"login"`
	Password string `json:"password"`
	Server   string `json:"server"`
	Path     string `json:"path"`
	Timeout  int    `json:"timeout"`
}

type MetaSyncConnectResponse struct {
	Connected bool   `json:"connected"`
	Status    string `json:"status"`
	Login     int64  `json:"login"`
	Server    string `json:"server"`
	Message   string `json:"message"`
}

type MetaSyncTickResponse struct {
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Last   float64 `json:"last"`
	Volume int64   `json:"volume"`
	Time   int64   `json:"time"`
}

type MetaSyncCandle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"tick_volume"`
}

// The OHLC endpoint answers either a bare candle array or an object wrapping
// one under "candles", depending on the bridge version.
type MetaSyncOHLCResponse struct {
	Candles []MetaSyncCandle `json:"candles"`
	Message string           `json:"message"`
}

type MetaSyncSymbolInfoResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Currency    string `json:"currency_base"`
	Digits      int    `json:"digits"`
}
