package service

import "pricematch-service/internal/matching/model"

// ResolveDiscount — скидка поставщика в процентах; нет записи → 0.
func ResolveDiscount(supplier string, table model.DiscountTable) float64 {
	return table[supplier]
}
