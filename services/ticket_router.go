package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bistrodev/bistro-pos/dispatch"
	"github.com/bistrodev/bistro-pos/models"
	"github.com/bistrodev/bistro-pos/utils"
	"gorm.io/gorm"
)

// TicketRouter fans an order's items out to station printers: items are
// grouped by their menu category's station, each group becomes one
// plain-text ticket queued on an active printer of that station.
type TicketRouter struct {
	db *gorm.DB
}

func NewTicketRouter(db *gorm.DB) *TicketRouter {
	return &TicketRouter{db: db}
}

// RouteOrder builds and persists the tickets for an order, then pushes
// them to station listeners through the dispatch hub. A station with no
// active printer still gets its ticket recorded, marked FAILED, so staff
// can reprint once a printer is back.
func (tr *TicketRouter) RouteOrder(orderID uint) ([]models.Ticket, error) {
	var order models.Order
	err := tr.db.Preload("Items.Menu.Category").Preload("Table").First(&order, orderID).Error
	if err != nil {
		return nil, err
	}
	if len(order.Items) == 0 {
		return nil, fmt.Errorf("order %d has no items to route", order.ID)
	}

	grouped := make(map[models.Station][]models.OrderItem)
	for _, item := range order.Items {
		station := item.Menu.Category.Station
		if !station.Valid() {
			utils.ErrorLogger.Printf("Order %d item %d has unknown station %q, routing to kitchen", order.ID, item.ID, station)
			station = models.StationKitchen
		}
		grouped[station] = append(grouped[station], item)
	}

	stations := make([]models.Station, 0, len(grouped))
	for station := range grouped {
		stations = append(stations, station)
	}
	sort.Slice(stations, func(i, j int) bool { return stations[i] < stations[j] })

	var tickets []models.Ticket
	for _, station := range stations {
		ticket := models.Ticket{
			OrderID: order.ID,
			Station: station,
			Body:    renderTicketBody(&order, station, grouped[station]),
			Status:  models.TicketQueued,
		}

		var printer models.Printer
		err := tr.db.
			Where("branch_id = ? AND station = ? AND is_active = ?", order.BranchID, station, true).
			Order("id ASC").First(&printer).Error
		if err != nil {
			ticket.Status = models.TicketFailed
		} else {
			ticket.PrinterID = &printer.ID
		}

		if err := tr.db.Create(&ticket).Error; err != nil {
			return nil, err
		}
		if ticket.Status == models.TicketQueued {
			dispatch.BroadcastTicket(ticket)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

// Requeue puts a failed or stuck ticket back on the wire, optionally
// onto a different printer.
func (tr *TicketRouter) Requeue(ticketID uint, printerID *uint) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := tr.db.First(&ticket, ticketID).Error; err != nil {
		return nil, err
	}
	if printerID != nil {
		var printer models.Printer
		if err := tr.db.Where("id = ? AND is_active = ?", *printerID, true).First(&printer).Error; err != nil {
			return nil, fmt.Errorf("printer %d not available: %w", *printerID, err)
		}
		ticket.PrinterID = printerID
	}
	if ticket.PrinterID == nil {
		return nil, fmt.Errorf("ticket %d has no printer assigned", ticket.ID)
	}

	ticket.Status = models.TicketQueued
	if err := tr.db.Save(&ticket).Error; err != nil {
		return nil, err
	}
	dispatch.BroadcastTicket(ticket)
	return &ticket, nil
}

func renderTicketBody(order *models.Order, station models.Station, items []models.OrderItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ORDER #%d  %s  [%s]\n", order.ID, order.Type, station)
	if order.Table != nil {
		fmt.Fprintf(&b, "Table %s\n", order.Table.TableNumber)
	}
	b.WriteString(strings.Repeat("-", 24) + "\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%dx %s\n", item.Quantity, item.Menu.Name)
		if item.Notes != "" {
			fmt.Fprintf(&b, "   * %s\n", item.Notes)
		}
	}
	if station == models.StationReceipt {
		b.WriteString(strings.Repeat("-", 24) + "\n")
		fmt.Fprintf(&b, "TOTAL %s\n", utils.FormatMoney(order.TotalAmount))
	}
	return b.String()
}
