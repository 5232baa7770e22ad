package lead

// defaultDomain is the email domain when none is configured.
const defaultDomain = "email.com"

var firstNames = []string{
	"João", "Maria", "Pedro", "Ana", "Carlos", "Lucas",
	"Fernanda", "Rafael", "Juliana", "Bruno", "Camila",
}

var lastNames = []string{
	"Silva", "Santos", "Oliveira", "Pereira", "Costa",
	"Rodrigues", "Alves", "Lima", "Gomes", "Ribeiro",
}

var tags = []string{
	"novo", "vip", "retorno", "interessado",
	"premium", "lead-frio", "lead-quente",
}

// realDDDs lists the Brazilian area codes in use.
var realDDDs = []int{
	11, 12, 13, 14, 15, 16, 17, 18, 19, // SP
	21, 22, 24, // RJ
	27, 28, // ES
	31, 32, 33, 34, 35, 37, 38, // MG
	41, 42, 43, 44, 45, 46, // PR
	47, 48, 49, // SC
	51, 53, 54, 55, // RS
	61,     // DF
	62, 64, // GO
	63,     // TO
	65, 66, // MT
	67,                 // MS
	68,                 // AC
	69,                 // RO
	71, 73, 74, 75, 77, // BA
	79,     // SE
	81, 82, // PE/AL
	83,     // PB
	84,     // RN
	85, 88, // CE
	86, 89, // PI
	87,         // PE
	91, 93, 94, // PA
	92, 97, // AM
	95,     // RR
	96,     // AP
	98, 99, // MA
}
