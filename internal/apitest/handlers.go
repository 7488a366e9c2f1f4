package apitest

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"kusina/internal/models"
)

// ----- menu -----

func toMenuItem(row menuRecord) models.MenuItem {
	return models.MenuItem{
		ID:          int64(row.ID),
		Name:        row.Name,
		Price:       row.Price,
		Description: row.Description,
		Category:    row.Category,
		Group:       row.Grouping,
		Image:       row.Image,
	}
}

func (s *Server) handleMenu(c *gin.Context) {
	var rows []menuRecord
	if err := s.db.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load menu"})
		return
	}
	items := make([]models.MenuItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, toMenuItem(row))
	}
	c.JSON(http.StatusOK, items)
}

// menuFromForm reads the multipart menu fields. The image upload is
// consumed but only its filename is kept; file storage is outside the
// surface under test.
func menuFromForm(c *gin.Context, row *menuRecord) bool {
	name := c.PostForm("name")
	priceRaw := c.PostForm("price")
	description := c.PostForm("description")
	if name == "" || priceRaw == "" || description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name, price and description are required"})
		return false
	}
	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid price"})
		return false
	}

	row.Name = name
	row.Price = price
	row.Description = description
	row.Category = c.PostForm("category")
	row.Grouping = c.PostForm("group")

	if file, err := c.FormFile("image"); err == nil {
		f, err := file.Open()
		if err == nil {
			io.Copy(io.Discard, f)
			f.Close()
		}
		row.Image = file.Filename
	} else if existing := c.PostForm("existing_image"); existing != "" {
		row.Image = existing
	}
	return true
}

func (s *Server) handleMenuCreate(c *gin.Context) {
	var row menuRecord
	if !menuFromForm(c, &row) {
		return
	}
	if err := s.db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create menu item"})
		return
	}
	c.JSON(http.StatusCreated, toMenuItem(row))
}

func (s *Server) handleMenuUpdate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var row menuRecord
	if err := s.db.First(&row, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "menu item not found"})
		return
	}
	if !menuFromForm(c, &row) {
		return
	}
	if err := s.db.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update menu item"})
		return
	}
	c.JSON(http.StatusOK, toMenuItem(row))
}

func (s *Server) handleMenuDelete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.db.Delete(&menuRecord{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete menu item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// ----- landing -----

func (s *Server) landingStats() models.LandingStats {
	var customers int
	s.db.Model(&userRecord{}).Where("role = ?", "customer").Count(&customers)

	var ratings []float64
	var rows []menuRecord
	s.db.Find(&rows)
	for _, row := range rows {
		if row.Rating > 0 {
			ratings = append(ratings, row.Rating)
		}
	}
	var avg float64
	for _, r := range ratings {
		avg += r
	}
	if len(ratings) > 0 {
		avg /= float64(len(ratings))
	}
	return models.LandingStats{AvgRating: avg, TotalCustomers: customers}
}

func (s *Server) handleLandingStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.landingStats())
}

func (s *Server) handleFeatured(c *gin.Context) {
	var rows []menuRecord
	if err := s.db.Where("featured = ?", true).Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load featured dishes"})
		return
	}
	items := make([]models.MenuItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, toMenuItem(row))
	}
	c.JSON(http.StatusOK, items)
}

// broadcastLandingStats pushes fresh aggregates to every live stats
// subscriber.
func (s *Server) broadcastLandingStats() {
	s.hub.broadcast(s.landingStats())
}

// ----- rider -----

func (s *Server) handleRider(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var row riderRecord
	if err := s.db.First(&row, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "rider not found"})
		return
	}
	c.JSON(http.StatusOK, models.Rider{
		ID:        int64(row.ID),
		Name:      row.Name,
		Phone:     row.Phone,
		Vehicle:   row.Vehicle,
		Available: row.Available,
	})
}

func (s *Server) handleRiderOrders(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	status := c.Query("status")

	var rows []orderRecord
	query := s.db.Where("rider_id = ?", id)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load deliveries"})
		return
	}

	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, s.toOrder(row))
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) handleRiderStats(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var rider riderRecord
	if err := s.db.First(&rider, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "rider not found"})
		return
	}

	today := time.Now().Truncate(24 * time.Hour)
	var total, todayCount int
	s.db.Model(&orderRecord{}).Where("rider_id = ? AND status = ?", id, string(models.OrderStatusCompleted)).Count(&total)
	s.db.Model(&orderRecord{}).Where("rider_id = ? AND status = ? AND completed_at >= ?", id, string(models.OrderStatusCompleted), today).Count(&todayCount)

	c.JSON(http.StatusOK, models.RiderStats{
		DeliveriesToday: todayCount,
		TotalDeliveries: total,
		Rating:          rider.Rating,
		Earnings:        rider.Earnings,
	})
}

func (s *Server) handleRiderAccept(c *gin.Context) {
	riderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	orderID, ok := paramID(c, "order_id")
	if !ok {
		return
	}

	var order orderRecord
	if err := s.db.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}
	if order.RiderID == nil || *order.RiderID != riderID {
		c.JSON(http.StatusForbidden, gin.H{"message": "order is not assigned to this rider"})
		return
	}
	if order.Status != string(models.OrderStatusAssigned) {
		c.JSON(http.StatusConflict, gin.H{"message": "order is not awaiting pickup"})
		return
	}

	order.Status = string(models.OrderStatusOnTheWay)
	if err := s.db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to accept delivery"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "delivery accepted"})
}

func (s *Server) handleRiderComplete(c *gin.Context) {
	riderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	orderID, ok := paramID(c, "order_id")
	if !ok {
		return
	}

	var order orderRecord
	if err := s.db.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}
	if order.RiderID == nil || *order.RiderID != riderID {
		c.JSON(http.StatusForbidden, gin.H{"message": "order is not assigned to this rider"})
		return
	}
	if order.Status != string(models.OrderStatusOnTheWay) {
		c.JSON(http.StatusConflict, gin.H{"message": "order is not on the way"})
		return
	}

	now := time.Now()
	order.Status = string(models.OrderStatusCompleted)
	order.CompletedAt = &now
	if err := s.db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to complete delivery"})
		return
	}
	s.db.Model(&riderRecord{}).Where("id = ?", riderID).Update("available", true)

	s.broadcastLandingStats()
	c.JSON(http.StatusOK, gin.H{"message": "delivery completed"})
}

// ----- staff -----

func (s *Server) handleStaffStats(c *gin.Context) {
	var pending, active, completedToday int
	var revenue float64

	s.db.Model(&orderRecord{}).Where("status = ?", string(models.OrderStatusPending)).Count(&pending)
	s.db.Model(&orderRecord{}).Where("status NOT IN (?)", []string{
		string(models.OrderStatusCompleted), string(models.OrderStatusDelivered),
	}).Count(&active)

	today := time.Now().Truncate(24 * time.Hour)
	var completed []orderRecord
	s.db.Where("status = ? AND completed_at >= ?", string(models.OrderStatusCompleted), today).Find(&completed)
	completedToday = len(completed)
	for _, row := range completed {
		revenue += row.TotalAmount
	}

	var available int
	s.db.Model(&riderRecord{}).Where("available = ?", true).Count(&available)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": models.StaffStats{
		PendingOrders:   pending,
		ActiveOrders:    active,
		CompletedToday:  completedToday,
		RevenueToday:    revenue,
		AvailableRiders: available,
	}})
}

func (s *Server) handleStaffOrders(c *gin.Context) {
	var rows []orderRecord
	if err := s.db.Where("status NOT IN (?)", []string{
		string(models.OrderStatusCompleted), string(models.OrderStatusDelivered),
	}).Order("id desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load orders"})
		return
	}

	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, s.toOrder(row))
	}

	var riderRows []riderRecord
	s.db.Where("available = ?", true).Find(&riderRows)
	riders := make([]models.Rider, 0, len(riderRows))
	for _, row := range riderRows {
		riders = append(riders, models.Rider{
			ID:        int64(row.ID),
			Name:      row.Name,
			Phone:     row.Phone,
			Vehicle:   row.Vehicle,
			Available: row.Available,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"orders": orders, "riders": riders}})
}

var validTransitions = map[string][]string{
	string(models.OrderStatusPending):   {string(models.OrderStatusPreparing)},
	string(models.OrderStatusPreparing): {string(models.OrderStatusReady)},
	string(models.OrderStatusReady):     {string(models.OrderStatusAssigned)},
	string(models.OrderStatusAssigned):  {string(models.OrderStatusOnTheWay)},
	string(models.OrderStatusOnTheWay): {
		string(models.OrderStatusCompleted), string(models.OrderStatusDelivered),
	},
}

func (s *Server) handleStaffUpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "status is required"})
		return
	}

	var order orderRecord
	if err := s.db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "order not found"})
		return
	}

	allowed := false
	for _, next := range validTransitions[order.Status] {
		if next == req.Status {
			allowed = true
		}
	}
	if !allowed {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "invalid status transition"})
		return
	}

	order.Status = req.Status
	if err := s.db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "status updated"})
}

func (s *Server) handleStaffAssign(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		RiderID uint `json:"rider_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RiderID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "rider_id is required"})
		return
	}

	var order orderRecord
	if err := s.db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "order not found"})
		return
	}
	var rider riderRecord
	if err := s.db.First(&rider, req.RiderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "rider not found"})
		return
	}

	order.RiderID = &rider.ID
	order.Status = string(models.OrderStatusAssigned)
	if err := s.db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to assign rider"})
		return
	}
	s.db.Model(&rider).Update("available", false)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "rider assigned"})
}
