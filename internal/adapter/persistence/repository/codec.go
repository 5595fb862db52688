package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"repair_costing/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// DynamoAPI is the part of *dynamodb.Client the repositories use.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

var _ DynamoAPI = (*dynamodb.Client)(nil)

// Decimals are stored as strings so no precision is lost in the number type.

type lineItemItem struct {
	ID                 string            `dynamodbav:"id"`
	Description        string            `dynamodbav:"description"`
	ProcessType        string            `dynamodbav:"process_type,omitempty"`
	PartType           string            `dynamodbav:"part_type,omitempty"`
	PartPriceNett      *string           `dynamodbav:"part_price_nett,omitempty"`
	StripAssembleHours *string           `dynamodbav:"strip_assemble_hours,omitempty"`
	LabourHours        *string           `dynamodbav:"labour_hours,omitempty"`
	PaintPanels        *string           `dynamodbav:"paint_panels,omitempty"`
	OutworkChargeNett  *string           `dynamodbav:"outwork_charge_nett,omitempty"`
	Betterment         map[string]string `dynamodbav:"betterment,omitempty"`
	Total              string            `dynamodbav:"total"`
	BettermentTotal    string            `dynamodbav:"betterment_total"`
}

type rateItem struct {
	LabourRate        string `dynamodbav:"labour_rate"`
	PaintRate         string `dynamodbav:"paint_rate"`
	OEMMarkup         string `dynamodbav:"oem_markup"`
	AlternativeMarkup string `dynamodbav:"alternative_markup"`
	SecondHandMarkup  string `dynamodbav:"second_hand_markup"`
	OutworkMarkup     string `dynamodbav:"outwork_markup"`
	VATPercentage     string `dynamodbav:"vat_percentage"`
}

type overridesItem struct {
	LabourRate        *string `dynamodbav:"labour_rate,omitempty"`
	PaintRate         *string `dynamodbav:"paint_rate,omitempty"`
	OEMMarkup         *string `dynamodbav:"oem_markup,omitempty"`
	AlternativeMarkup *string `dynamodbav:"alternative_markup,omitempty"`
	SecondHandMarkup  *string `dynamodbav:"second_hand_markup,omitempty"`
	OutworkMarkup     *string `dynamodbav:"outwork_markup,omitempty"`
	VATPercentage     *string `dynamodbav:"vat_percentage,omitempty"`
}

// decoder collects the first decode failure so converters stay linear.
type decoder struct {
	err error
}

func (d *decoder) dec(field, s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil && d.err == nil {
		d.err = fmt.Errorf("%w: corrupt %s %q", entities.ErrPersistence, field, s)
	}
	return v
}

func (d *decoder) decPtr(field string, s *string) *decimal.Decimal {
	if s == nil {
		return nil
	}
	v := d.dec(field, *s)
	return &v
}

func (d *decoder) time(field, s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil && d.err == nil {
		d.err = fmt.Errorf("%w: corrupt %s %q", entities.ErrPersistence, field, s)
	}
	return t
}

func (d *decoder) timePtr(field, s string) *time.Time {
	if s == "" {
		return nil
	}
	t := d.time(field, s)
	return &t
}

func decPtrString(v *decimal.Decimal) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func toLineItemItem(li entities.LineItem) lineItemItem {
	f := entities.FieldsOf(li.Cost)
	it := lineItemItem{
		ID:                 li.ID,
		Description:        li.Description,
		ProcessType:        string(li.ProcessType()),
		PartPriceNett:      decPtrString(f.PartPriceNett),
		StripAssembleHours: decPtrString(f.StripAssembleHours),
		LabourHours:        decPtrString(f.LabourHours),
		PaintPanels:        decPtrString(f.PaintPanels),
		OutworkChargeNett:  decPtrString(f.OutworkChargeNett),
		Total:              li.Total.String(),
		BettermentTotal:    li.BettermentTotal.String(),
	}
	if f.PartType != nil {
		it.PartType = string(*f.PartType)
	}
	if len(li.Betterment) > 0 {
		it.Betterment = make(map[string]string, len(li.Betterment))
		for c, pct := range li.Betterment {
			it.Betterment[string(c)] = pct.String()
		}
	}
	return it
}

func (d *decoder) lineItem(it lineItemItem) entities.LineItem {
	li := entities.LineItem{
		ID:              it.ID,
		Description:     it.Description,
		Total:           d.dec("total", it.Total),
		BettermentTotal: d.dec("betterment_total", it.BettermentTotal),
	}
	if it.ProcessType != "" {
		f := entities.CostFields{
			PartPriceNett:      d.decPtr("part_price_nett", it.PartPriceNett),
			StripAssembleHours: d.decPtr("strip_assemble_hours", it.StripAssembleHours),
			LabourHours:        d.decPtr("labour_hours", it.LabourHours),
			PaintPanels:        d.decPtr("paint_panels", it.PaintPanels),
			OutworkChargeNett:  d.decPtr("outwork_charge_nett", it.OutworkChargeNett),
		}
		if it.PartType != "" {
			pt := entities.PartType(it.PartType)
			f.PartType = &pt
		}
		cost, err := entities.BuildCostInputs(entities.ProcessType(it.ProcessType), f)
		if err != nil && d.err == nil {
			d.err = fmt.Errorf("%w: line %s: %v", entities.ErrPersistence, it.ID, err)
		}
		li.Cost = cost
	}
	if len(it.Betterment) > 0 {
		li.Betterment = make(entities.Betterment, len(it.Betterment))
		for c, pct := range it.Betterment {
			li.Betterment[entities.Component(c)] = d.dec("betterment", pct)
		}
	}
	return li
}

func toRateItem(r entities.RateSnapshot) rateItem {
	return rateItem{
		LabourRate:        r.LabourRate.String(),
		PaintRate:         r.PaintRate.String(),
		OEMMarkup:         r.Markups.OEM.String(),
		AlternativeMarkup: r.Markups.Alternative.String(),
		SecondHandMarkup:  r.Markups.SecondHand.String(),
		OutworkMarkup:     r.Markups.Outwork.String(),
		VATPercentage:     r.VATPercentage.String(),
	}
}

func (d *decoder) rates(it rateItem) entities.RateSnapshot {
	return entities.RateSnapshot{
		LabourRate: d.dec("labour_rate", it.LabourRate),
		PaintRate:  d.dec("paint_rate", it.PaintRate),
		Markups: entities.Markups{
			OEM:         d.dec("oem_markup", it.OEMMarkup),
			Alternative: d.dec("alternative_markup", it.AlternativeMarkup),
			SecondHand:  d.dec("second_hand_markup", it.SecondHandMarkup),
			Outwork:     d.dec("outwork_markup", it.OutworkMarkup),
		},
		VATPercentage: d.dec("vat_percentage", it.VATPercentage),
	}
}

func toOverridesItem(o entities.RateOverrides) overridesItem {
	return overridesItem{
		LabourRate:        decPtrString(o.LabourRate),
		PaintRate:         decPtrString(o.PaintRate),
		OEMMarkup:         decPtrString(o.OEMMarkup),
		AlternativeMarkup: decPtrString(o.AlternativeMarkup),
		SecondHandMarkup:  decPtrString(o.SecondHandMarkup),
		OutworkMarkup:     decPtrString(o.OutworkMarkup),
		VATPercentage:     decPtrString(o.VATPercentage),
	}
}

func (d *decoder) overrides(it overridesItem) entities.RateOverrides {
	return entities.RateOverrides{
		LabourRate:        d.decPtr("labour_rate", it.LabourRate),
		PaintRate:         d.decPtr("paint_rate", it.PaintRate),
		OEMMarkup:         d.decPtr("oem_markup", it.OEMMarkup),
		AlternativeMarkup: d.decPtr("alternative_markup", it.AlternativeMarkup),
		SecondHandMarkup:  d.decPtr("second_hand_markup", it.SecondHandMarkup),
		OutworkMarkup:     d.decPtr("outwork_markup", it.OutworkMarkup),
		VATPercentage:     d.decPtr("vat_percentage", it.VATPercentage),
	}
}

// storageError maps driver errors onto the error taxonomy.
func storageError(op string, err error) error {
	var cfe *types.ConditionalCheckFailedException
	if errors.As(err, &cfe) {
		return fmt.Errorf("%w: %s: condition failed", entities.ErrConcurrentModification, op)
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, r := range tce.CancellationReasons {
			if r.Code != nil && *r.Code == "ConditionalCheckFailed" {
				return fmt.Errorf("%w: %s: condition failed", entities.ErrConcurrentModification, op)
			}
		}
	}
	return fmt.Errorf("%w: %s: %v", entities.ErrPersistence, op, err)
}

func mergeNames(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
