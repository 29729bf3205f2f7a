package catalog

import (
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
)

func sampleProducts() []models.Product {
	type sample struct {
		title, price, image string
		section             enums.Section
		description         string
	}
	samples := []sample{
		{"Elegant Black Abaya", "₹1,499", "images/img1.jpg", enums.SectionPopular, "Classic black abaya with elegant embroidery and comfortable fit. Perfect for daily wear and special occasions."},
		{"Embroidered Cream Abaya", "₹1,799", "images/img2.jpg", enums.SectionPopular, "Beautiful cream colored abaya with intricate embroidery work. Made with premium quality fabric."},
		{"Designer Navy Blue Abaya", "₹2,199", "images/img3.jpeg", enums.SectionPopular, "Latest designer navy blue abaya with modern cuts and patterns. Exclusive collection."},
		{"Traditional Maroon Abaya", "₹1,299", "images/img7.jpg", enums.SectionPopular, "Traditional maroon abaya perfect for special occasions. Rich color and elegant design."},
		{"Casual Grey Abaya", "₹999", "images/img5.jpg", enums.SectionNewArrivals, "Comfortable casual grey abaya for everyday wear. Lightweight and easy to maintain."},
		{"Luxury Golden Abaya", "₹2,499", "images/img6.jpg", enums.SectionNewArrivals, "Premium golden abaya with luxury fabric and design. Perfect for weddings and festivals."},
		{"Simple White Abaya", "₹1,199", "images/img7.jpg", enums.SectionNewArrivals, "Simple and elegant white abaya for daily use. Pure cotton fabric for maximum comfort."},
		{"Floral Print Abaya", "₹1,899", "images/img8.jpg", enums.SectionNewArrivals, "Beautiful floral print abaya with modern design. Unique pattern and excellent finish."},
		{"Premium Silk Abaya", "₹1,999", "images/img1.jpg", enums.SectionBestDeals, "Premium silk abaya with exclusive design. Limited time offer with great discount."},
		{"Casual Wear Abaya", "₹899", "images/img2.jpg", enums.SectionBestDeals, "Affordable casual wear abaya. Best value for money with premium look."},
		{"Designer Collection Abaya", "₹2,299", "images/img3.jpeg", enums.SectionBestDeals, "Designer collection abaya at special price. High quality fabric with perfect stitching."},
		{"Traditional Embroidered Abaya", "₹1,599", "images/img7.jpg", enums.SectionBestDeals, "Traditional embroidered abaya with handwork. Special discount for limited period."},
	}

	products := make([]models.Product, 0, len(samples))
	for _, s := range samples {
		products = append(products, models.Product{
			Title:       s.title,
			Price:       s.price,
			Image:       s.image,
			Section:     s.section,
			Description: s.description,
			InStock:     true,
		})
	}
	return products
}
