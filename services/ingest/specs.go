package ingest

import "econdata-backend/lib/wds"

// StatCan productIds of the warehoused tables
const (
	labourForcePid  = 14100287
	fuelPricePid    = 18100001
	foodCpiPid      = 18100006
	tradeCurrentPid = 12100168
	// the pre-2017 trade index lives in an archived cube
	tradeArchivedPid = 12100128
)

// Bank of Canada Valet series for monthly FX rates. The legacy series stop
// at the end of 2016, the FX_RATES_MONTHLY group picks up from 2017.
var legacyFxCodes = map[string]string{
	"IEXM0102_AVG": "USD/CAD",
	"EUROCAM01":    "EUR/CAD",
}

var currentFxCodes = map[string]string{
	"FXMUSDCAD": "USD/CAD",
	"FXMEURCAD": "EUR/CAD",
}

const fxRatesMonthlyGroup = "FX_RATES_MONTHLY"

var labourForceSpecs = []wds.Selection{
	wds.Select("Geography", "Canada"),
	wds.Select("Labour force characteristics", "Employment rate", "Unemployment rate"),
	wds.Select("Data type", "Seasonally adjusted"),
	wds.Select("Statistics", "Estimate"),
	wds.Select("Gender", "Total - Gender"),
	wds.Select("Age group", "15 years and over"),
}

// fuel price geographies are discovered from the cube's catalog at load
// time (every geography except the Canada aggregate), only the fuel types
// are fixed
var fuelTypeSpec = wds.Select(
	"Type of fuel",
	"Regular unleaded gasoline at self service filling stations",
	"Diesel fuel at self service filling stations",
)

var tradeSpecs = []wds.Selection{
	wds.Select("Geography", "Canada"),
	wds.Select("Trade", "Import", "Export"),
	wds.Select("Basis", "Customs"),
	wds.Select("Seasonal adjustment", "Seasonally adjusted"),
	wds.Select("Index", "Price index"),
	wds.Select("Weighting", "Laspeyres fixed weighted"),
	wds.Select("North American Product Classification System (NAPCS)", "Farm, fishing and intermediate food products"),
}

var foodCpiSpecs = []wds.Selection{
	wds.Select("Geography", "Canada"),
	wds.Select("Products and product groups", "Food"),
}
