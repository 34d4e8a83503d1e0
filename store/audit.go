package store

import (
	"github.com/sirupsen/logrus"
)

// LogEvents returns a subscriber writing every event to log.
func LogEvents(log logrus.FieldLogger) Subscriber {
	return func(ev Event) {
		fields := logrus.Fields{
			"event":   string(ev.Kind),
			"user_id": ev.UserID,
			"at":      ev.At,
		}

		switch ev.Kind {
		case KindCartItemAdded, KindCartItemRemoved, KindCartCleared:
			fields["cart_count"] = ev.Cart.Count()
			fields["cart_total"] = ev.Cart.Total().String()
		case KindCheckedOut:
			fields["purchase_id"] = ev.Purchase.ID
			fields["total"] = ev.Purchase.TotalAmount.String()
		case KindListingCreated, KindListingUpdated, KindListingDeleted:
			fields["product_id"] = ev.Product.ID
		case KindFilterChanged:
			fields["q"] = ev.Filter.Query
			fields["category"] = ev.Filter.Category
			fields["sort"] = string(ev.Filter.Sort)
		}

		log.WithFields(fields).Info("store event")
	}
}
