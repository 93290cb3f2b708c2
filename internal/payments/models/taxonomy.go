package models

import "strings"

// PaymentType tags one rail-specific payment flavor. The tag namespace
// (prefix before the first underscore) drives classification; nothing else
// is derived from the string.
type PaymentType string

const (
	PaymentTypeSEPACredit         PaymentType = "SEPA_SCT"
	PaymentTypeSEPAInstant        PaymentType = "SEPA_SCT_INST"
	PaymentTypeSEPADirectDebit    PaymentType = "SEPA_SDD_CORE"
	PaymentTypeSEPADirectDebitB2B PaymentType = "SEPA_SDD_B2B"

	PaymentTypeSwiftMT101   PaymentType = "SWIFT_MT101"
	PaymentTypeSwiftMT103   PaymentType = "SWIFT_MT103"
	PaymentTypeSwiftMT202   PaymentType = "SWIFT_MT202"
	PaymentTypeSwiftPacs008 PaymentType = "SWIFT_PACS008"
	PaymentTypeSwiftPacs009 PaymentType = "SWIFT_PACS009"

	PaymentTypeACHCredit  PaymentType = "ACH_CREDIT"
	PaymentTypeACHDebit   PaymentType = "ACH_DEBIT"
	PaymentTypeACHSameDay PaymentType = "ACH_SAME_DAY"
	PaymentTypeACHReturn  PaymentType = "ACH_RETURN"

	PaymentTypeUKFasterPayment PaymentType = "UK_FPS"
	PaymentTypeUKBACS          PaymentType = "UK_BACS"
	PaymentTypeUKCHAPS         PaymentType = "UK_CHAPS"
	PaymentTypeUKStandingOrder PaymentType = "UK_STANDING_ORDER"

	PaymentTypeTarget2 PaymentType = "TARGET2"

	PaymentTypeTIPSInstant PaymentType = "TIPS_INSTANT"

	PaymentTypeEBAStep2Credit      PaymentType = "EBA_STEP2_SCT"
	PaymentTypeEBAStep2DirectDebit PaymentType = "EBA_STEP2_SDD"

	PaymentTypeCardAuthorization PaymentType = "CARD_AUTHORIZATION"
	PaymentTypeCardCapture       PaymentType = "CARD_CAPTURE"
	PaymentTypeCardRefund        PaymentType = "CARD_REFUND"

	PaymentTypeInternalTransfer     PaymentType = "INTERNAL_TRANSFER"
	PaymentTypeInternalBookTransfer PaymentType = "INTERNAL_BOOK_TRANSFER"
)

func (t PaymentType) String() string { return string(t) }

// ProviderCategory groups payment types bound to one provider slot in the
// registry.
type ProviderCategory string

const (
	CategorySEPA     ProviderCategory = "SEPA"
	CategorySwift    ProviderCategory = "SWIFT"
	CategoryACH      ProviderCategory = "ACH"
	CategoryUK       ProviderCategory = "UK"
	CategoryTarget2  ProviderCategory = "TARGET2"
	CategoryTIPS     ProviderCategory = "TIPS"
	CategoryEBAStep2 ProviderCategory = "EBA_STEP2"
	CategoryInternal ProviderCategory = "INTERNAL"
	CategoryCard     ProviderCategory = "CARD"
	CategoryDefault  ProviderCategory = "DEFAULT"
)

func (c ProviderCategory) String() string { return string(c) }

// AllCategories lists every provider slot, DEFAULT last. The health
// aggregator iterates this to report unbound categories as NOT_AVAILABLE.
func AllCategories() []ProviderCategory {
	return []ProviderCategory{
		CategorySEPA,
		CategorySwift,
		CategoryACH,
		CategoryUK,
		CategoryTarget2,
		CategoryTIPS,
		CategoryEBAStep2,
		CategoryInternal,
		CategoryCard,
		CategoryDefault,
	}
}

// typeCategory is the static many-to-one mapping from payment type to
// provider category. Kept as pure data so the routing table stays
// inspectable; anything absent routes to DEFAULT.
var typeCategory = map[PaymentType]ProviderCategory{
	PaymentTypeSEPACredit:           CategorySEPA,
	PaymentTypeSEPAInstant:          CategorySEPA,
	PaymentTypeSEPADirectDebit:      CategorySEPA,
	PaymentTypeSEPADirectDebitB2B:   CategorySEPA,
	PaymentTypeSwiftMT101:           CategorySwift,
	PaymentTypeSwiftMT103:           CategorySwift,
	PaymentTypeSwiftMT202:           CategorySwift,
	PaymentTypeSwiftPacs008:         CategorySwift,
	PaymentTypeSwiftPacs009:         CategorySwift,
	PaymentTypeACHCredit:            CategoryACH,
	PaymentTypeACHDebit:             CategoryACH,
	PaymentTypeACHSameDay:           CategoryACH,
	PaymentTypeACHReturn:            CategoryACH,
	PaymentTypeUKFasterPayment:      CategoryUK,
	PaymentTypeUKBACS:               CategoryUK,
	PaymentTypeUKCHAPS:              CategoryUK,
	PaymentTypeUKStandingOrder:      CategoryUK,
	PaymentTypeTarget2:              CategoryTarget2,
	PaymentTypeTIPSInstant:          CategoryTIPS,
	PaymentTypeEBAStep2Credit:       CategoryEBAStep2,
	PaymentTypeEBAStep2DirectDebit:  CategoryEBAStep2,
	PaymentTypeCardAuthorization:    CategoryCard,
	PaymentTypeCardCapture:          CategoryCard,
	PaymentTypeCardRefund:           CategoryCard,
	PaymentTypeInternalTransfer:     CategoryInternal,
	PaymentTypeInternalBookTransfer: CategoryInternal,
}

// CategoryFor maps a payment type to its provider category. Total: unmapped
// tags fall back to DEFAULT rather than failing.
func CategoryFor(t PaymentType) ProviderCategory {
	if c, ok := typeCategory[t]; ok {
		return c
	}
	return CategoryDefault
}

// Known reports whether a payment type is part of the routing table.
func Known(t PaymentType) bool {
	_, ok := typeCategory[t]
	return ok
}

// KnownTypes returns every payment type in the routing table.
func KnownTypes() []PaymentType {
	types := make([]PaymentType, 0, len(typeCategory))
	for t := range typeCategory {
		types = append(types, t)
	}
	return types
}

// realTimeTypes marks rails that settle in (near) real time.
var realTimeTypes = map[PaymentType]struct{}{
	PaymentTypeSEPAInstant:     {},
	PaymentTypeTIPSInstant:     {},
	PaymentTypeUKFasterPayment: {},
	PaymentTypeUKCHAPS:         {},
	PaymentTypeTarget2:         {},
}

// Classification carries the derived flags of a payment type. Computed from
// the tag namespace, never stored.
type Classification struct {
	SEPA     bool
	Swift    bool
	ACH      bool
	UK       bool
	Internal bool
	RealTime bool
}

// Classify derives the flag set for a payment type.
func Classify(t PaymentType) Classification {
	tag := string(t)
	_, realTime := realTimeTypes[t]
	return Classification{
		SEPA:     strings.HasPrefix(tag, "SEPA_"),
		Swift:    strings.HasPrefix(tag, "SWIFT_"),
		ACH:      strings.HasPrefix(tag, "ACH_"),
		UK:       strings.HasPrefix(tag, "UK_"),
		Internal: strings.HasPrefix(tag, "INTERNAL_"),
		RealTime: realTime,
	}
}
