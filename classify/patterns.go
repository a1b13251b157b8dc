package classify

import "regexp"

// nonWord matches a character outside letters, digits and underscore.
// Go's \b only knows ASCII, so boundaries next to accented letters are
// spelled out with it.
const nonWord = `[^\p{L}\p{N}_]`

// timeOfDay lists time-of-day and continuity tokens in English, Spanish and
// Portuguese
const timeOfDay = `DIA|DÍA|` +
	`NOCHE|NOITE|` +
	`TARDE|` +
	`MAÑANA|MANHA|MANHÃ|` +
	`MEDIODIA|MEDIODÍA|MEIO[- ]DIA|MEIO[- ]DÍA|` +
	`AMANECER|AMANHECER|ALBA|ALVOR|ALVORECER|` +
	`ANOCHECER|ANOITECER|ENTARDECER|CREPUSCULO|CREPÚSCULO|` +
	`PÔR[- ]DO[- ]SOL|POR[- ]DO[- ]SOL|NASCER[- ]DO[- ]SOL|` +
	`NOITINHA|TARDEZINHA|` +
	`DAY|NIGHT|MORNING|AFTERNOON|EVENING|DAWN|DUSK|SUNRISE|SUNSET|LATER|` +
	`CONTINUO|CONTÍNUO|CONTINUA(?:ÇÃO)?|CONTINUOUS|CONT\.|CONT`

var (
	// sceneIntExt matches INT./EXT. headings with an optional scene number
	// ("12A. INT. KITCHEN")
	sceneIntExt = regexp.MustCompile(`(?i)^\s*(?:\d+[A-Z]?\.?\s*)?(?:INT|EXT|INT/EXT|EXT/INT|I/E|E/I)(?:` + nonWord + `|$)`)

	// sceneDashTime matches "PLACE - DAY" and "PLACE — NOCHE" style headings
	sceneDashTime = regexp.MustCompile(`(?i)\s[-—]\s(?:.*` + nonWord + `)?(?:` + timeOfDay + `)(?:` + nonWord + `|$)`)

	omitted = regexp.MustCompile(`(?i)(?:^|` + nonWord + `)OMITTED(?:` + nonWord + `|$)`)

	startsWithNumber = regexp.MustCompile(`^\s*\d+[A-Z]?\.?`)

	// transitionPhrase matches a closing transition at the end of the text
	transitionPhrase = regexp.MustCompile(`(?i)(?:` +
		`CUT TO:|DISSOLVE TO:|FADE (?:IN|OUT):|SMASH CUT TO:|MATCH CUT TO:` +
		`|CORTE A:|FUNDIDO A:|FUNDIDO (?:ENTRADA|SALIDA):|CORTE BRUSCO A:|INTERCORTE A:|CORTE POR COINCIDENCIA A:` +
		`|CORTE PARA:|DISSOLVE PARA:|FUSÃO (?:ENTRADA|SAÍDA):|CORTE SECO PARA:|CORTE POR COINCIDÊNCIA PARA:` +
		`)\s*$`)

	shotPrefix = regexp.MustCompile(`(?i)^(?:CLOSE ON|ANGLE ON|POV|INSERT|SHOT|WIDE SHOT|ECU|CU|MS|WS)(?:` + nonWord + `|$)`)

	parenthesized = regexp.MustCompile(`^\s*\(.*\)\s*$`)

	// alphaNoise is removed before the all-caps test
	alphaNoise = regexp.MustCompile("[0-9 .,?¿!¡'\"()/\\-’`´]+")

	integerNumber  = regexp.MustCompile(`^\d+$`)
	decimalNumber  = regexp.MustCompile(`^\d+\.\d+$`)
	letteredNumber = regexp.MustCompile(`^\d+[A-Za-z]$`)
)
