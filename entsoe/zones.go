package entsoe

import "strings"

// Zone is an EIC code identifying a bidding zone on the transparency
// platform. The same code is used for both in_Domain and out_Domain in a
// day-ahead price query.
type Zone string

const (
	ZoneAT   Zone = "10YAT-APG------L"
	ZoneBE   Zone = "10YBE----------2"
	ZoneBG   Zone = "10YCA-BULGARIA-R"
	ZoneCH   Zone = "10YCH-SWISSGRIDZ"
	ZoneCZ   Zone = "10YCZ-CEPS-----N"
	ZoneDELU Zone = "10Y1001A1001A82H"
	ZoneDK1  Zone = "10YDK-1--------W"
	ZoneDK2  Zone = "10YDK-2--------M"
	ZoneEE   Zone = "10Y1001A1001A39I"
	ZoneES   Zone = "10YES-REE------0"
	ZoneFI   Zone = "10YFI-1--------U"
	ZoneFR   Zone = "10YFR-RTE------C"
	ZoneGR   Zone = "10YGR-HTSO-----Y"
	ZoneHR   Zone = "10YHR-HEP------M"
	ZoneHU   Zone = "10YHU-MAVIR----U"
	ZoneLT   Zone = "10YLT-1001A0008Q"
	ZoneLV   Zone = "10YLV-1001A00074"
	ZoneNL   Zone = "10YNL----------L"
	ZoneNO1  Zone = "10YNO-1--------2"
	ZoneNO2  Zone = "10YNO-2--------T"
	ZoneNO3  Zone = "10YNO-3--------J"
	ZoneNO4  Zone = "10YNO-4--------9"
	ZoneNO5  Zone = "10Y1001A1001A48H"
	ZonePL   Zone = "10YPL-AREA-----S"
	ZonePT   Zone = "10YPT-REN------W"
	ZoneRO   Zone = "10YRO-TEL------P"
	ZoneSE1  Zone = "10Y1001A1001A44P"
	ZoneSE2  Zone = "10Y1001A1001A45N"
	ZoneSE3  Zone = "10Y1001A1001A46L"
	ZoneSE4  Zone = "10Y1001A1001A47J"
	ZoneSI   Zone = "10YSI-ELES-----O"
	ZoneSK   Zone = "10YSK-SEPS-----K"
)

var zonesByName = map[string]Zone{
	"AT":    ZoneAT,
	"BE":    ZoneBE,
	"BG":    ZoneBG,
	"CH":    ZoneCH,
	"CZ":    ZoneCZ,
	"DE_LU": ZoneDELU,
	"DK1":   ZoneDK1,
	"DK2":   ZoneDK2,
	"EE":    ZoneEE,
	"ES":    ZoneES,
	"FI":    ZoneFI,
	"FR":    ZoneFR,
	"GR":    ZoneGR,
	"HR":    ZoneHR,
	"HU":    ZoneHU,
	"LT":    ZoneLT,
	"LV":    ZoneLV,
	"NL":    ZoneNL,
	"NO1":   ZoneNO1,
	"NO2":   ZoneNO2,
	"NO3":   ZoneNO3,
	"NO4":   ZoneNO4,
	"NO5":   ZoneNO5,
	"PL":    ZonePL,
	"PT":    ZonePT,
	"RO":    ZoneRO,
	"SE1":   ZoneSE1,
	"SE2":   ZoneSE2,
	"SE3":   ZoneSE3,
	"SE4":   ZoneSE4,
	"SI":    ZoneSI,
	"SK":    ZoneSK,
}

// ZoneFromString resolves a zone from either a short market name ("NL",
// "SE3", "DE_LU") or a raw EIC code.
func ZoneFromString(str string) (Zone, bool) {
	if z, ok := zonesByName[strings.ToUpper(strings.TrimSpace(str))]; ok {
		return z, true
	}
	z := Zone(strings.TrimSpace(str))
	return z, z.IsValid()
}

func (z Zone) IsValid() bool {
	for _, known := range zonesByName {
		if z == known {
			return true
		}
	}
	return false
}

// Name returns the short market name for the zone, or the EIC code itself
// when no short name is known.
func (z Zone) Name() string {
	for name, known := range zonesByName {
		if z == known {
			return name
		}
	}
	return string(z)
}
