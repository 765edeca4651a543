package models

import "github.com/guregu/null/v5"

// FundRecord is one fund as returned by the catalog record API.
// Fields mirror the API's JSON exactly; records are never mutated
// after they are fetched.
type FundRecord struct {
	ID                   string  `json:"id"`
	FundName             string  `json:"fundName"`
	FundImage            string  `json:"fundImage"`
	AssetClass           string  `json:"assetClass"`
	Currency             string  `json:"currency"`
	YahooFinanceTicker   string  `json:"yahooFinanceTicker"`
	Ticker               string  `json:"ticker"`
	Fee                  float64 `json:"fee"`
	GeoFocus             string  `json:"geoFocus"`
	AccumulationOrIncome string  `json:"accumulationOrIncome"`
	DividendPurification string  `json:"dividendPurification"`
	ActiveOrPassive      string  `json:"activeOrPassive"`
	InvestmentType       string  `json:"investmentType"`
	CurrencyDenomination string  `json:"currencyDenomination"`
	BrokerAvailability   string  `json:"brokerAvailability"`
	ShowInProd           bool    `json:"showInProd"`
}

// FundStats is the enriched, publishable form of a FundRecord.
// Null fields marshal as JSON null: a return metric is null exactly
// when no comparable historical price could be resolved, and the
// adjusted returns are null for funds that need no currency adjustment.
type FundStats struct {
	FundName             string      `json:"fundName"`
	FundImage            null.String `json:"fundImage"`
	AssetClass           string      `json:"assetClass"`
	Currency             string      `json:"currency"`
	YahooFinanceTicker   string      `json:"yahooFinanceTicker"`
	Ticker               string      `json:"ticker"`
	Fee                  float64     `json:"fee"`
	GeoFocus             string      `json:"geoFocus"`
	AccumulationOrIncome string      `json:"accumulationOrIncome"`
	DividendPurification string      `json:"dividendPurification"`
	ActiveOrPassive      string      `json:"activeOrPassive"`
	InvestmentType       string      `json:"investmentType"`
	CurrencyDenomination string      `json:"currencyDenomination"`
	BrokerAvailability   string      `json:"brokerAvailability"`
	Price                float64     `json:"price"`
	OneMonth             null.Float  `json:"oneMonth"`
	OneYear              null.Float  `json:"oneYear"`
	OneMonthAdjusted     null.Float  `json:"oneMonthAdjusted"`
	OneYearAdjusted      null.Float  `json:"oneYearAdjusted"`
	ShowInProd           bool        `json:"showInProd"`
	UpdatedAt            string      `json:"updatedAt"`
}
