package catalog

// Queries take the schema name as $1.

const enumsQuery = `
SELECT t.typname, e.enumlabel, e.enumsortorder
FROM pg_catalog.pg_enum e
JOIN pg_catalog.pg_type t ON e.enumtypid = t.oid
JOIN pg_catalog.pg_namespace n ON t.typnamespace = n.oid
WHERE n.nspname = $1
ORDER BY t.typname, e.enumsortorder`

const compositesQuery = `
SELECT a.udt_name, a.attribute_name, a.ordinal_position,
       CASE WHEN a.attribute_udt_name IS NOT NULL AND d.typtype = 'd' THEN 'USER-DEFINED' ELSE a.data_type END,
       a.attribute_udt_name,
       a.is_nullable = 'YES'
FROM information_schema.attributes a
JOIN information_schema.user_defined_types u
  ON u.user_defined_type_schema = a.udt_schema AND u.user_defined_type_name = a.udt_name
LEFT JOIN pg_catalog.pg_type d
  ON d.typname = a.attribute_udt_name
 AND d.typnamespace = (SELECT oid FROM pg_catalog.pg_namespace WHERE nspname = a.attribute_udt_schema)
WHERE a.udt_schema = $1
ORDER BY a.udt_name, a.ordinal_position`

const columnsQuery = `
SELECT c.table_name, c.column_name, c.ordinal_position,
       CASE WHEN c.domain_name IS NOT NULL THEN 'USER-DEFINED' ELSE c.data_type END,
       COALESCE(c.domain_name, c.udt_name),
       c.is_nullable = 'YES'
FROM information_schema.columns c
JOIN information_schema.tables t
  ON t.table_schema = c.table_schema AND t.table_name = c.table_name
WHERE c.table_schema = $1
  AND t.table_type = $2
ORDER BY c.table_name, c.ordinal_position`

const tablesQuery = `
SELECT table_name
FROM information_schema.tables
WHERE table_schema = $1
  AND table_type = 'BASE TABLE'
ORDER BY table_name`

const viewsQuery = `
SELECT table_name, is_updatable = 'YES', is_insertable_into = 'YES'
FROM information_schema.views
WHERE table_schema = $1
ORDER BY table_name`

const domainsQuery = `
SELECT t.typname, b.typname, t.typnotnull, COALESCE(obj_description(t.oid, 'pg_type'), '')
FROM pg_catalog.pg_type t
JOIN pg_catalog.pg_namespace n ON t.typnamespace = n.oid
JOIN pg_catalog.pg_type b ON t.typbasetype = b.oid
WHERE n.nspname = $1
  AND t.typtype = 'd'
ORDER BY t.typname`

const functionsQuery = `
SELECT r.specific_name, r.routine_name, r.data_type, COALESCE(r.type_udt_name, ''), p.proretset
FROM information_schema.routines r
JOIN pg_catalog.pg_proc p
  ON r.specific_name = p.proname || '_' || p.oid
WHERE r.specific_schema = $1
  AND r.routine_type = 'FUNCTION'
  AND r.data_type <> 'trigger'
ORDER BY r.routine_name, r.specific_name`

const parametersQuery = `
SELECT p.specific_name, COALESCE(p.parameter_name, ''), p.ordinal_position,
       p.data_type, COALESCE(p.udt_name, '')
FROM information_schema.parameters p
JOIN information_schema.routines r
  ON r.specific_schema = p.specific_schema AND r.specific_name = p.specific_name
WHERE p.specific_schema = $1
  AND p.parameter_mode IN ('IN', 'INOUT')
ORDER BY p.specific_name, p.ordinal_position`
