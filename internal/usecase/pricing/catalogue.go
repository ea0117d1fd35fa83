package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/tradesim-backend/internal/domain"
)

// Instrument is a tradable asset the refresh job keeps priced.
// Symbol is the key in the price store; Ticker is what the market data source
// is queried with. BasePrice seeds the static sources and may be zero.
type Instrument struct {
	Symbol    string
	Ticker    string
	Name      string
	AssetType domain.AssetType
	BasePrice decimal.Decimal
}

func nse(ticker, name string, assetType domain.AssetType, base string) Instrument {
	instrument := Instrument{
		Symbol:    strings.TrimSuffix(ticker, ".NS"),
		Ticker:    ticker,
		Name:      name,
		AssetType: assetType,
	}
	if base != "" {
		instrument.BasePrice = decimal.RequireFromString(base)
	}
	return instrument
}

func fund(symbol, name, nav string) Instrument {
	return Instrument{
		Symbol:    symbol,
		Ticker:    symbol,
		Name:      name,
		AssetType: domain.AssetTypeMutualFund,
		BasePrice: decimal.RequireFromString(nav),
	}
}

// DefaultCatalogue lists the NSE stocks, ETFs and mutual funds offered for trading
func DefaultCatalogue() []Instrument {
	return []Instrument{
		nse("RELIANCE.NS", "Reliance Industries Limited", domain.AssetTypeStock, "1389.80"),
		nse("TCS.NS", "Tata Consultancy Services", domain.AssetTypeStock, "3062.40"),
		nse("HDFCBANK.NS", "HDFC Bank Limited", domain.AssetTypeStock, "958.45"),
		nse("INFY.NS", "Infosys Limited", domain.AssetTypeStock, "1497.50"),
		nse("ICICIBANK.NS", "ICICI Bank Limited", domain.AssetTypeStock, "1394.30"),
		nse("HINDUNILVR.NS", "Hindustan Unilever Limited", domain.AssetTypeStock, ""),
		nse("SBIN.NS", "State Bank of India", domain.AssetTypeStock, ""),
		nse("BHARTIARTL.NS", "Bharti Airtel Limited", domain.AssetTypeStock, ""),
		nse("ITC.NS", "ITC Limited", domain.AssetTypeStock, ""),
		nse("KOTAKBANK.NS", "Kotak Mahindra Bank Limited", domain.AssetTypeStock, ""),
		nse("LT.NS", "Larsen & Toubro Limited", domain.AssetTypeStock, ""),
		nse("ASIANPAINT.NS", "Asian Paints Limited", domain.AssetTypeStock, ""),
		nse("MARUTI.NS", "Maruti Suzuki India Limited", domain.AssetTypeStock, ""),
		nse("TITAN.NS", "Titan Company Limited", domain.AssetTypeStock, ""),
		nse("NESTLEIND.NS", "Nestle India Limited", domain.AssetTypeStock, ""),
		nse("ULTRACEMCO.NS", "UltraTech Cement Limited", domain.AssetTypeStock, ""),
		nse("POWERGRID.NS", "Power Grid Corporation of India", domain.AssetTypeStock, ""),
		nse("NTPC.NS", "NTPC Limited", domain.AssetTypeStock, ""),
		nse("TECHM.NS", "Tech Mahindra Limited", domain.AssetTypeStock, ""),
		nse("HCLTECH.NS", "HCL Technologies Limited", domain.AssetTypeStock, ""),

		nse("NIFTYBEES.NS", "Nippon India ETF Nifty BeES", domain.AssetTypeETF, ""),
		nse("JUNIORBEES.NS", "Nippon India ETF Junior BeES", domain.AssetTypeETF, ""),
		nse("BANKBEES.NS", "Nippon India ETF Bank BeES", domain.AssetTypeETF, ""),
		nse("GOLDBEES.NS", "Nippon India ETF Gold BeES", domain.AssetTypeETF, ""),

		fund("AXISBLUE", "Axis Bluechip Fund", "47.25"),
		fund("HDFCTOP100", "HDFC Top 100 Fund", "785.50"),
		fund("ICICIPRU500", "ICICI Prudential Nifty 500 Fund", "156.75"),
		fund("SBISMALL", "SBI Small Cap Fund", "98.40"),
		fund("MOTILALMID", "Motilal Oswal Midcap Fund", "67.80"),
	}
}
