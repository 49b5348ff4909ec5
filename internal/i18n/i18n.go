package i18n

import "strings"

// Minimal en/fr message catalog keyed by short codes. Unknown codes fall
// back to the code itself so missing translations stay visible.
var catalog = map[string]map[string]string{
	"en": {
		"required":              "Required",
		"invalid_credentials":   "Invalid credentials",
		"customer_added":        "Customer added",
		"customer_updated":      "Customer updated",
		"customer_deleted":      "Customer deleted",
		"product_added":         "Product added",
		"product_updated":       "Product updated",
		"product_deleted":       "Product deleted",
		"invoice_created":       "Invoice created",
		"invoice_paid":          "Invoice marked as Paid",
		"invoice_create_failed": "Could not create the invoice",
		"insufficient_stock":    "Insufficient stock for",
		"not_found":             "Not found",
		"invalid_input":         "Invalid input",
	},
	"fr": {
		"required":              "Requis",
		"invalid_credentials":   "Identifiants invalides",
		"customer_added":        "Client ajouté",
		"customer_updated":      "Client mis à jour",
		"customer_deleted":      "Client supprimé",
		"product_added":         "Produit ajouté",
		"product_updated":       "Produit mis à jour",
		"product_deleted":       "Produit supprimé",
		"invoice_created":       "Facture créée",
		"invoice_paid":          "Facture marquée comme payée",
		"invoice_create_failed": "La facture n'a pas pu être créée",
		"insufficient_stock":    "Stock insuffisant pour",
		"not_found":             "Introuvable",
		"invalid_input":         "Saisie invalide",
	},
}

// T translates a code for the given language. Unknown languages fall back to
// English, unknown codes to the code itself.
func T(lang, code string) string {
	if m, ok := catalog[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalog["en"][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language header,
// defaulting to English.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if i := strings.IndexAny(tag, "-;"); i >= 0 {
			tag = tag[:i]
		}
		switch tag {
		case "en", "fr":
			return tag
		}
	}
	return "en"
}
