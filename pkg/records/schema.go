package records

// Schema lists, per logical field, the input keys consulted in precedence
// order. Every entity's aliases are declared here and nowhere else.
type Schema struct {
	Date   Field
	Outlet Field
	Brand  Field
	Amount Field
}

var (
	outletField = Keys("outlet", "outletName", "outletId")
	brandField  = Keys("brand", "brandName")

	// SalesSchema reads SalesRecord{date, outlet, brand, netSales}.
	SalesSchema = Schema{
		Date:   Keys("date", "saleDate"),
		Outlet: outletField,
		Brand:  brandField,
		Amount: Keys("netSales", "amount"),
	}

	// PurchaseSchema reads PurchaseRecord{date, outlet, brand, totalCost}.
	PurchaseSchema = Schema{
		Date:   Keys("date", "purchaseDate", "invoiceDate"),
		Outlet: outletField,
		Brand:  brandField,
		Amount: Keys("totalCost", "amount"),
	}

	// RentSchema reads the cash side of RentRecord{date, outlet, amount}.
	RentSchema = Schema{
		Date:   Keys("date", "paymentDate"),
		Outlet: outletField,
		Brand:  brandField,
		Amount: Keys("amount", "rentAmount", "monthlyRent"),
	}

	// LaborSchema reads LaborRecord{date, outlet, laborCost}.
	LaborSchema = Schema{
		Date:   Keys("date", "payDate"),
		Outlet: outletField,
		Brand:  brandField,
		Amount: Keys("laborCost", "amount"),
	}

	// PettyCashSchema reads PettyCashRecord{date, outlet, amount}.
	PettyCashSchema = Schema{
		Date:   Keys("date"),
		Outlet: outletField,
		Brand:  brandField,
		Amount: Keys("amount", "total"),
	}
)

// LeaseSchema reads the lease metadata of a RentRecord.
var LeaseSchema = struct {
	Outlet, Landlord, Frequency Field
	Start, End, Amount, Fixed   Field
}{
	Outlet:    outletField,
	Landlord:  Keys("landlord", "landlordName"),
	Frequency: Keys("frequency", "paymentFrequency"),
	Start:     Keys("leaseStart", "date"),
	End:       Keys("leaseEnd"),
	Amount:    RentSchema.Amount,
	Fixed:     Keys("isRentFixed", "isFixed", "fixed"),
}

// MenuSchema reads MenuItemRecord rows.
var MenuSchema = struct {
	Name, Brand, Outlet, Category Field
	Price, Cost, Units, Revenue   Field
}{
	Name:     Keys("name", "menuItemName", "itemName", "recipeName"),
	Brand:    brandField,
	Outlet:   outletField,
	Category: Keys("category", "menuCategory"),
	Price:    Keys("menuPrice", "sellingPrice", "price"),
	Cost:     Keys("foodCost", "costPerPortion", "cost"),
	Units:    Keys("portionsSold", "qtySold", "popularity", "salesQty"),
	Revenue:  Keys("salesRevenue", "revenue"),
}

// SchemaFor returns the flow schema of a category; unknown categories read
// like petty cash (date, outlet, amount).
func SchemaFor(category Category) Schema {
	switch category {
	case Sales:
		return SalesSchema
	case Purchase:
		return PurchaseSchema
	case Rent:
		return RentSchema
	case Labor:
		return LaborSchema
	default:
		return PettyCashSchema
	}
}
