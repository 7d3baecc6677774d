package models

// MLoadReport summarizes one dataset load.
type MLoadReport struct {
	Market          Market  `json:"market"`
	Path            string  `json:"path"`
	RowsRead        int     `json:"rows_read"`
	RowsKept        int     `json:"rows_kept"`
	BadDates        int     `json:"bad_dates"`
	CoercedCells    int     `json:"coerced_cells"`
	Duplicates      int     `json:"duplicates"`
	MissingSessions int     `json:"missing_sessions"`
	ElapsedSeconds  float64 `json:"elapsed_seconds"`
}

// MDatasetStatus is pushed to websocket clients when a market changes state.
type MDatasetStatus struct {
	Type    string `json:"type"` // "INITIAL" or "DATASET_READY"
	Market  Market `json:"market"`
	Loaded  bool   `json:"loaded"`
	Rows    int    `json:"rows"`
	MinDate string `json:"min_date"`
	MaxDate string `json:"max_date"`
}

// MSubscribeCommand for client messages
type MSubscribeCommand struct {
	Command string   `json:"command"`
	Markets []Market `json:"markets"`
}
