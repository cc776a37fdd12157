package viaggiatreno

// Train is one raw departure record. Only the fields the board uses
// are mapped; the upstream payload carries dozens more.
type Train struct {
	Category      string `json:"categoriaDescrizione"`
	Number        string `json:"compNumeroTreno"`
	Destination   string `json:"destinazione"`
	DepartureTime int64  `json:"orarioPartenza"` // epoch milliseconds
	Delay         int    `json:"ritardo"`        // minutes, negative when early
}

type stationDetail struct {
	Localita struct {
		NomeLungo string `json:"nomeLungo"`
		NomeBreve string `json:"nomeBreve"`
	} `json:"localita"`
}
