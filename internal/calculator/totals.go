// Package calculator derives order aggregates. Nothing here is stored;
// every total is recomputed from the orders on read.
package calculator

import "github.com/mmynk/grouporder/internal/models"

// TokenTotal returns the sum of Total over orders. Zero for no orders.
func TokenTotal(orders []models.Order) float64 {
	var total float64
	for _, order := range orders {
		total += order.Total
	}
	return total
}

// UserTotals groups orders by user name.
//
// Algorithm:
// - Names match exactly (case-sensitive, no trimming)
// - Each user's Total is the sum of their orders' captured totals
// - Users appear in the order their name was first seen; each user's
//   orders keep encounter order
func UserTotals(orders []models.Order) models.UserTotals {
	totals := models.UserTotals{}
	index := make(map[string]int)

	for _, order := range orders {
		i, exists := index[order.UserName]
		if !exists {
			i = len(totals)
			index[order.UserName] = i
			totals = append(totals, models.UserTotal{UserName: order.UserName})
		}
		totals[i].Total += order.Total
		totals[i].Orders = append(totals[i].Orders, order)
	}

	return totals
}

// CartTotal returns the sum of price × quantity across items.
func CartTotal(items []models.LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Amount()
	}
	return total
}

// ItemCount returns the sum of quantities across items.
func ItemCount(items []models.LineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
